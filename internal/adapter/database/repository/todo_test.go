package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/suite"

	"taskvault/internal/adapter/database/repository"
	"taskvault/internal/core/domain"
	"taskvault/internal/core/filter"
	"taskvault/internal/core/port"
	"taskvault/internal/core/util"
	"taskvault/pkg/test"
	"taskvault/pkg/test/factory"
)

type TodoRepositoryTestSuite struct {
	suite.Suite
	TodoRepo     port.TodoRepository
	UserRepo     port.UserRepository
	CategoryRepo port.CategoryRepository
	TagRepo      port.TagRepository
	Owner        domain.User
	Other        domain.User
}

func TestTodoRepositoryTestSuite(t *testing.T) {
	RegisterTestingT(t)

	suite.Run(t, new(TodoRepositoryTestSuite))
}

func (s *TodoRepositoryTestSuite) SetupTest() {
	db := test.InitTestDB()

	s.TodoRepo = repository.NewTodoRepository(db)
	s.UserRepo = repository.NewUserRepository(db)
	s.CategoryRepo = repository.NewCategoryRepository(db)
	s.TagRepo = repository.NewTagRepository(db)

	owner, err := s.UserRepo.Create(context.Background(), factory.NewUser())
	s.Require().NoError(err)
	s.Owner = owner

	other, err := s.UserRepo.Create(context.Background(), factory.NewUser())
	s.Require().NoError(err)
	s.Other = other
}

func (s *TodoRepositoryTestSuite) defaultPage() util.PageRequest {
	return util.PageRequest{Page: 0, Size: 10}
}

func (s *TodoRepositoryTestSuite) TestCreateAndGet() {
	created, err := s.TodoRepo.Create(context.Background(),
		factory.NewTodo(s.Owner.ID, map[string]any{"Title": "Write report"}), nil)

	Expect(err).To(BeNil())
	Expect(created.ID).To(BeNumerically(">", 0))

	found, err := s.TodoRepo.GetByIDAndOwner(context.Background(), created.ID, s.Owner.ID, false)

	Expect(err).To(BeNil())
	Expect(found.Title).To(Equal("Write report"))
	Expect(found.UserID).To(Equal(s.Owner.ID))
}

func (s *TodoRepositoryTestSuite) TestGetScopedToOwner() {
	created, err := s.TodoRepo.Create(context.Background(), factory.NewTodo(s.Owner.ID), nil)
	s.Require().NoError(err)

	_, err = s.TodoRepo.GetByIDAndOwner(context.Background(), created.ID, s.Other.ID, false)

	Expect(errors.Is(err, domain.ErrNotFound)).To(BeTrue())
}

func (s *TodoRepositoryTestSuite) TestSoftDeleteHidesRow() {
	created, err := s.TodoRepo.Create(context.Background(), factory.NewTodo(s.Owner.ID), nil)
	s.Require().NoError(err)

	now := time.Now().UTC()
	err = s.TodoRepo.SetDeletedAt(context.Background(), created.ID, &now, s.Owner.ID)
	s.Require().NoError(err)

	_, err = s.TodoRepo.GetByIDAndOwner(context.Background(), created.ID, s.Owner.ID, false)
	Expect(errors.Is(err, domain.ErrNotFound)).To(BeTrue())

	found, err := s.TodoRepo.GetByIDAndOwner(context.Background(), created.ID, s.Owner.ID, true)
	Expect(err).To(BeNil())
	Expect(found.DeletedAt).ToNot(BeNil())
}

func (s *TodoRepositoryTestSuite) TestListActiveSmartOrdering() {
	due := time.Now().UTC().Add(24 * time.Hour)

	done := factory.NewTodo(s.Owner.ID, map[string]any{
		"Title": "done", "Status": domain.TodoStatusDone,
	})
	pendingNoDue := factory.NewTodo(s.Owner.ID, map[string]any{
		"Title": "pending-no-due", "Status": domain.TodoStatusPending,
	})
	pendingDue := factory.NewTodo(s.Owner.ID, map[string]any{
		"Title": "pending-due", "Status": domain.TodoStatusPending, "DueDate": &due,
	})
	inProgress := factory.NewTodo(s.Owner.ID, map[string]any{
		"Title": "in-progress", "Status": domain.TodoStatusInProgress,
	})

	for _, todo := range []domain.Todo{done, pendingNoDue, pendingDue, inProgress} {
		_, err := s.TodoRepo.Create(context.Background(), todo, nil)
		s.Require().NoError(err)
	}

	todos, total, err := s.TodoRepo.ListActive(context.Background(), s.Owner.ID, s.defaultPage())

	Expect(err).To(BeNil())
	Expect(total).To(Equal(int64(4)))

	titles := make([]string, 0, len(todos))

	for _, todo := range todos {
		titles = append(titles, todo.Title)
	}

	Expect(titles).To(Equal([]string{"in-progress", "pending-due", "pending-no-due", "done"}))
}

func (s *TodoRepositoryTestSuite) TestListActiveExcludesOtherOwners() {
	_, err := s.TodoRepo.Create(context.Background(), factory.NewTodo(s.Owner.ID), nil)
	s.Require().NoError(err)

	_, err = s.TodoRepo.Create(context.Background(), factory.NewTodo(s.Other.ID), nil)
	s.Require().NoError(err)

	_, total, err := s.TodoRepo.ListActive(context.Background(), s.Owner.ID, s.defaultPage())

	Expect(err).To(BeNil())
	Expect(total).To(Equal(int64(1)))
}

func (s *TodoRepositoryTestSuite) TestSearchWithFilter() {
	_, err := s.TodoRepo.Create(context.Background(),
		factory.NewTodo(s.Owner.ID, map[string]any{"Title": "Buy groceries"}), nil)
	s.Require().NoError(err)

	_, err = s.TodoRepo.Create(context.Background(),
		factory.NewTodo(s.Owner.ID, map[string]any{"Title": "Walk the dog"}), nil)
	s.Require().NoError(err)

	f := filter.FromSearch(s.Owner.ID, filter.TodoSearch{Query: "GROCERIES"})

	todos, total, err := s.TodoRepo.Search(context.Background(), f, s.defaultPage())

	Expect(err).To(BeNil())
	Expect(total).To(Equal(int64(1)))
	Expect(todos[0].Title).To(Equal("Buy groceries"))
}

func (s *TodoRepositoryTestSuite) TestSearchByTag() {
	tag, err := s.TagRepo.Create(context.Background(), factory.NewTag(s.Owner.ID))
	s.Require().NoError(err)

	tagged, err := s.TodoRepo.Create(context.Background(),
		factory.NewTodo(s.Owner.ID, map[string]any{"Title": "tagged"}), []int64{tag.ID})
	s.Require().NoError(err)

	_, err = s.TodoRepo.Create(context.Background(),
		factory.NewTodo(s.Owner.ID, map[string]any{"Title": "untagged"}), nil)
	s.Require().NoError(err)

	f := filter.FromSearch(s.Owner.ID, filter.TodoSearch{TagIDs: []int64{tag.ID}})

	todos, total, err := s.TodoRepo.Search(context.Background(), f, s.defaultPage())

	Expect(err).To(BeNil())
	Expect(total).To(Equal(int64(1)))
	Expect(todos[0].ID).To(Equal(tagged.ID))
}

func (s *TodoRepositoryTestSuite) TestListAllSearchLowersThePattern() {
	_, err := s.TodoRepo.Create(context.Background(),
		factory.NewTodo(s.Owner.ID, map[string]any{"Title": "café run"}), nil)
	s.Require().NoError(err)

	_, err = s.TodoRepo.Create(context.Background(),
		factory.NewTodo(s.Owner.ID, map[string]any{"Title": "laundry"}), nil)
	s.Require().NoError(err)

	// sqlite's LIKE only folds ASCII, so a non-ASCII uppercase query
	// matches only if the pattern itself is lowered before binding.
	todos, total, err := s.TodoRepo.ListAll(context.Background(), "CAFÉ", s.defaultPage())

	Expect(err).To(BeNil())
	Expect(total).To(Equal(int64(1)))
	Expect(todos[0].Title).To(Equal("café run"))
}

func (s *TodoRepositoryTestSuite) TestSearchByTagsIsInclusive() {
	urgent, err := s.TagRepo.Create(context.Background(), factory.NewTag(s.Owner.ID, map[string]any{"Name": "urgent"}))
	s.Require().NoError(err)

	errand, err := s.TagRepo.Create(context.Background(), factory.NewTag(s.Owner.ID, map[string]any{"Name": "errand"}))
	s.Require().NoError(err)

	both, err := s.TodoRepo.Create(context.Background(),
		factory.NewTodo(s.Owner.ID, map[string]any{"Title": "both"}), []int64{urgent.ID, errand.ID})
	s.Require().NoError(err)

	urgentOnly, err := s.TodoRepo.Create(context.Background(),
		factory.NewTodo(s.Owner.ID, map[string]any{"Title": "urgent only"}), []int64{urgent.ID})
	s.Require().NoError(err)

	errandOnly, err := s.TodoRepo.Create(context.Background(),
		factory.NewTodo(s.Owner.ID, map[string]any{"Title": "errand only"}), []int64{errand.ID})
	s.Require().NoError(err)

	_, err = s.TodoRepo.Create(context.Background(),
		factory.NewTodo(s.Owner.ID, map[string]any{"Title": "untagged"}), nil)
	s.Require().NoError(err)

	// Either tag matches, and a todo carrying both appears exactly once.
	f := filter.FromSearch(s.Owner.ID, filter.TodoSearch{TagIDs: []int64{urgent.ID, errand.ID}})

	todos, total, err := s.TodoRepo.Search(context.Background(), f, s.defaultPage())

	Expect(err).To(BeNil())
	Expect(total).To(Equal(int64(3)))

	seen := map[int64]int{}

	for _, todo := range todos {
		seen[todo.ID]++
	}

	Expect(seen[both.ID]).To(Equal(1))
	Expect(seen[urgentOnly.ID]).To(Equal(1))
	Expect(seen[errandOnly.ID]).To(Equal(1))

	f = filter.FromSearch(s.Owner.ID, filter.TodoSearch{TagIDs: []int64{urgent.ID}})

	_, total, err = s.TodoRepo.Search(context.Background(), f, s.defaultPage())

	Expect(err).To(BeNil())
	Expect(total).To(Equal(int64(2)))
}

func (s *TodoRepositoryTestSuite) TestSearchExcludesSubtasks() {
	parent, err := s.TodoRepo.Create(context.Background(),
		factory.NewTodo(s.Owner.ID, map[string]any{"Title": "parent task"}), nil)
	s.Require().NoError(err)

	_, err = s.TodoRepo.Create(context.Background(),
		factory.NewTodo(s.Owner.ID, map[string]any{"Title": "child task", "ParentID": &parent.ID}), nil)
	s.Require().NoError(err)

	f := filter.FromSearch(s.Owner.ID, filter.TodoSearch{Query: "task"})

	_, total, err := s.TodoRepo.Search(context.Background(), f, s.defaultPage())

	Expect(err).To(BeNil())
	Expect(total).To(Equal(int64(1)))
}

func (s *TodoRepositoryTestSuite) TestUpdateReplacesTags() {
	tagA, err := s.TagRepo.Create(context.Background(), factory.NewTag(s.Owner.ID))
	s.Require().NoError(err)

	tagB, err := s.TagRepo.Create(context.Background(), factory.NewTag(s.Owner.ID))
	s.Require().NoError(err)

	created, err := s.TodoRepo.Create(context.Background(), factory.NewTodo(s.Owner.ID), []int64{tagA.ID})
	s.Require().NoError(err)

	created.Title = "renamed"
	_, err = s.TodoRepo.Update(context.Background(), created, []int64{tagB.ID})
	s.Require().NoError(err)

	tags, err := s.TodoRepo.TagsForTodos(context.Background(), []int64{created.ID})

	Expect(err).To(BeNil())
	Expect(tags[created.ID]).To(HaveLen(1))
	Expect(tags[created.ID][0].ID).To(Equal(tagB.ID))
}

func (s *TodoRepositoryTestSuite) TestListTrashed() {
	kept, err := s.TodoRepo.Create(context.Background(), factory.NewTodo(s.Owner.ID), nil)
	s.Require().NoError(err)

	trashed, err := s.TodoRepo.Create(context.Background(), factory.NewTodo(s.Owner.ID), nil)
	s.Require().NoError(err)

	now := time.Now().UTC()
	s.Require().NoError(s.TodoRepo.SetDeletedAt(context.Background(), trashed.ID, &now, s.Owner.ID))

	todos, total, err := s.TodoRepo.ListTrashed(context.Background(), s.Owner.ID, s.defaultPage())

	Expect(err).To(BeNil())
	Expect(total).To(Equal(int64(1)))
	Expect(todos[0].ID).To(Equal(trashed.ID))
	Expect(todos[0].ID).ToNot(Equal(kept.ID))
}

func (s *TodoRepositoryTestSuite) TestListChildren() {
	parent, err := s.TodoRepo.Create(context.Background(), factory.NewTodo(s.Owner.ID), nil)
	s.Require().NoError(err)

	child, err := s.TodoRepo.Create(context.Background(),
		factory.NewTodo(s.Owner.ID, map[string]any{"ParentID": &parent.ID}), nil)
	s.Require().NoError(err)

	children, err := s.TodoRepo.ListChildren(context.Background(), parent.ID)

	Expect(err).To(BeNil())
	Expect(children).To(HaveLen(1))
	Expect(children[0].ID).To(Equal(child.ID))
}

func (s *TodoRepositoryTestSuite) TestCountByOwnerAndStatus() {
	for i := 0; i < 2; i++ {
		_, err := s.TodoRepo.Create(context.Background(),
			factory.NewTodo(s.Owner.ID, map[string]any{"Status": domain.TodoStatusDone}), nil)
		s.Require().NoError(err)
	}

	_, err := s.TodoRepo.Create(context.Background(),
		factory.NewTodo(s.Owner.ID, map[string]any{"Status": domain.TodoStatusPending}), nil)
	s.Require().NoError(err)

	count, err := s.TodoRepo.CountByOwnerAndStatus(context.Background(), s.Owner.ID, domain.TodoStatusDone)

	Expect(err).To(BeNil())
	Expect(count).To(Equal(int64(2)))
}

func (s *TodoRepositoryTestSuite) TestHardDeleteCascades() {
	tag, err := s.TagRepo.Create(context.Background(), factory.NewTag(s.Owner.ID))
	s.Require().NoError(err)

	parent, err := s.TodoRepo.Create(context.Background(), factory.NewTodo(s.Owner.ID), []int64{tag.ID})
	s.Require().NoError(err)

	child, err := s.TodoRepo.Create(context.Background(),
		factory.NewTodo(s.Owner.ID, map[string]any{"ParentID": &parent.ID}), nil)
	s.Require().NoError(err)

	err = s.TodoRepo.HardDelete(context.Background(), parent.ID)
	s.Require().NoError(err)

	_, err = s.TodoRepo.GetByID(context.Background(), parent.ID)
	Expect(errors.Is(err, domain.ErrNotFound)).To(BeTrue())

	_, err = s.TodoRepo.GetByID(context.Background(), child.ID)
	Expect(errors.Is(err, domain.ErrNotFound)).To(BeTrue())

	tags, err := s.TodoRepo.TagsForTodos(context.Background(), []int64{parent.ID})
	Expect(err).To(BeNil())
	Expect(tags).To(BeEmpty())
}
