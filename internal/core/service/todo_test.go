package service_test

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
	"taskvault/internal/core/model/request"
	"taskvault/internal/core/port"
	"taskvault/internal/core/service"
	"taskvault/internal/core/util"
	"taskvault/pkg/test"
	"taskvault/pkg/test/factory"
)

type TodoServiceTestSuite struct {
	suite.Suite
	Service      port.TodoService
	TodoRepo     port.TodoRepository
	CategoryRepo port.CategoryRepository
	TagRepo      port.TagRepository
	Owner        domain.User
	Other        domain.User
}

func TestTodoServiceTestSuite(t *testing.T) {
	RegisterTestingT(t)

	suite.Run(t, new(TodoServiceTestSuite))
}

func (s *TodoServiceTestSuite) SetupTest() {
	db := test.InitTestDB()

	s.TodoRepo = repository.NewTodoRepository(db)
	s.CategoryRepo = repository.NewCategoryRepository(db)
	s.TagRepo = repository.NewTagRepository(db)
	s.Service = service.NewTodoService(s.TodoRepo, s.CategoryRepo, s.TagRepo, repository.NewAttachmentRepository(db))

	users := repository.NewUserRepository(db)

	owner, err := users.Create(context.Background(), factory.NewUser())
	s.Require().NoError(err)
	s.Owner = owner

	other, err := users.Create(context.Background(), factory.NewUser())
	s.Require().NoError(err)
	s.Other = other
}

func (s *TodoServiceTestSuite) defaultPage() util.PageRequest {
	return util.PageRequest{Page: 0, Size: 10}
}

func todoRequest(title string) request.TodoRequest {
	return request.TodoRequest{Title: title, Status: "PENDING", Priority: "MEDIUM"}
}

func (s *TodoServiceTestSuite) TestCreatePersistsStatusAndPriority() {
	created, err := s.Service.Create(context.Background(), s.Owner.ID,
		request.TodoRequest{Title: "Plan trip", Status: "IN_PROGRESS", Priority: "HIGH"})

	Expect(err).To(BeNil())
	Expect(created.Status).To(Equal("IN_PROGRESS"))
	Expect(created.Priority).To(Equal("HIGH"))
	Expect(created.Tags).To(BeEmpty())
}

func (s *TodoServiceTestSuite) TestCreateRequiresStatusAndPriority() {
	_, err := s.Service.Create(context.Background(), s.Owner.ID,
		request.TodoRequest{Title: "x", Priority: "MEDIUM"})
	Expect(errors.Is(err, domain.ErrBadRequest)).To(BeTrue())

	_, err = s.Service.Create(context.Background(), s.Owner.ID,
		request.TodoRequest{Title: "x", Status: "PENDING"})
	Expect(errors.Is(err, domain.ErrBadRequest)).To(BeTrue())
}

func (s *TodoServiceTestSuite) TestCreateRejectsUnknownStatus() {
	req := todoRequest("x")
	req.Status = "SOMEDAY"

	_, err := s.Service.Create(context.Background(), s.Owner.ID, req)

	Expect(errors.Is(err, domain.ErrBadRequest)).To(BeTrue())
}

func (s *TodoServiceTestSuite) TestCreateWithForeignCategoryReportsNotFound() {
	category, err := s.CategoryRepo.Create(context.Background(), factory.NewCategory(s.Other.ID))
	s.Require().NoError(err)

	req := todoRequest("x")
	req.CategoryID = &category.ID

	_, err = s.Service.Create(context.Background(), s.Owner.ID, req)

	Expect(errors.Is(err, domain.ErrNotFound)).To(BeTrue())
}

func (s *TodoServiceTestSuite) TestCreateWithForeignTagReportsNotFound() {
	tag, err := s.TagRepo.Create(context.Background(), factory.NewTag(s.Other.ID))
	s.Require().NoError(err)

	req := todoRequest("x")
	req.TagIDs = []int64{tag.ID}

	_, err = s.Service.Create(context.Background(), s.Owner.ID, req)

	Expect(errors.Is(err, domain.ErrNotFound)).To(BeTrue())
}

func (s *TodoServiceTestSuite) TestUpdatePartialSemantics() {
	due := time.Now().UTC().Add(48 * time.Hour)
	minutes := 90

	req := todoRequest("Original")
	req.Description = "with details"
	req.DueDate = &due
	req.EstimatedMinutes = &minutes

	created, err := s.Service.Create(context.Background(), s.Owner.ID, req)
	s.Require().NoError(err)

	// DueDate and EstimatedMinutes are absent so they keep their values;
	// Description is a full overwrite so it is cleared.
	updated, err := s.Service.Update(context.Background(), s.Owner.ID, created.ID,
		todoRequest("Renamed"))

	Expect(err).To(BeNil())
	Expect(updated.Title).To(Equal("Renamed"))
	Expect(updated.Description).To(Equal(""))
	Expect(updated.DueDate).ToNot(BeNil())
	Expect(updated.EstimatedMinutes).ToNot(BeNil())
	Expect(*updated.EstimatedMinutes).To(Equal(90))
}

func (s *TodoServiceTestSuite) TestUpdateRequiresStatusAndPriority() {
	created, err := s.Service.Create(context.Background(), s.Owner.ID, todoRequest("x"))
	s.Require().NoError(err)

	_, err = s.Service.Update(context.Background(), s.Owner.ID, created.ID,
		request.TodoRequest{Title: "renamed", Priority: "MEDIUM"})

	Expect(errors.Is(err, domain.ErrBadRequest)).To(BeTrue())
}

func (s *TodoServiceTestSuite) TestUpdateOverwritesStatusAndPriority() {
	req := todoRequest("x")
	req.Status = "IN_PROGRESS"
	req.Priority = "HIGH"

	created, err := s.Service.Create(context.Background(), s.Owner.ID, req)
	s.Require().NoError(err)

	updated, err := s.Service.Update(context.Background(), s.Owner.ID, created.ID,
		todoRequest("x"))

	Expect(err).To(BeNil())
	Expect(updated.Status).To(Equal("PENDING"))
	Expect(updated.Priority).To(Equal("MEDIUM"))
}

func (s *TodoServiceTestSuite) TestUpdateClearsCategoryWhenAbsent() {
	category, err := s.CategoryRepo.Create(context.Background(), factory.NewCategory(s.Owner.ID))
	s.Require().NoError(err)

	req := todoRequest("x")
	req.CategoryID = &category.ID

	created, err := s.Service.Create(context.Background(), s.Owner.ID, req)
	s.Require().NoError(err)
	s.Require().NotNil(created.Category)

	updated, err := s.Service.Update(context.Background(), s.Owner.ID, created.ID,
		todoRequest("x"))

	Expect(err).To(BeNil())
	Expect(updated.Category).To(BeNil())
}

func (s *TodoServiceTestSuite) TestUpdateReplacesTags() {
	tagA, err := s.TagRepo.Create(context.Background(), factory.NewTag(s.Owner.ID))
	s.Require().NoError(err)

	tagB, err := s.TagRepo.Create(context.Background(), factory.NewTag(s.Owner.ID))
	s.Require().NoError(err)

	req := todoRequest("x")
	req.TagIDs = []int64{tagA.ID}

	created, err := s.Service.Create(context.Background(), s.Owner.ID, req)
	s.Require().NoError(err)

	req.TagIDs = []int64{tagB.ID}

	updated, err := s.Service.Update(context.Background(), s.Owner.ID, created.ID, req)

	Expect(err).To(BeNil())
	Expect(updated.Tags).To(HaveLen(1))
	Expect(updated.Tags[0].ID).To(Equal(tagB.ID))
}

func (s *TodoServiceTestSuite) TestGetByIDCrossTenant() {
	created, err := s.Service.Create(context.Background(), s.Owner.ID, todoRequest("mine"))
	s.Require().NoError(err)

	_, err = s.Service.GetByID(context.Background(), s.Other.ID, created.ID)

	Expect(errors.Is(err, domain.ErrNotFound)).To(BeTrue())
}

func (s *TodoServiceTestSuite) TestDeleteTouchesOnlyNamedTodo() {
	parent, err := s.Service.Create(context.Background(), s.Owner.ID, todoRequest("parent"))
	s.Require().NoError(err)

	child, err := s.Service.CreateSubtask(context.Background(), s.Owner.ID, parent.ID,
		todoRequest("child"))
	s.Require().NoError(err)

	err = s.Service.Delete(context.Background(), s.Owner.ID, parent.ID)
	s.Require().NoError(err)

	_, err = s.Service.GetByID(context.Background(), s.Owner.ID, parent.ID)
	Expect(errors.Is(err, domain.ErrNotFound)).To(BeTrue())

	stored, err := s.TodoRepo.GetByIDAndOwner(context.Background(), child.ID, s.Owner.ID, false)
	Expect(err).To(BeNil())
	Expect(stored.DeletedAt).To(BeNil())
}

func (s *TodoServiceTestSuite) TestDeleteRestoreKeepsSubtasks() {
	parent, err := s.Service.Create(context.Background(), s.Owner.ID, todoRequest("parent"))
	s.Require().NoError(err)

	_, err = s.Service.CreateSubtask(context.Background(), s.Owner.ID, parent.ID,
		todoRequest("child"))
	s.Require().NoError(err)

	s.Require().NoError(s.Service.Delete(context.Background(), s.Owner.ID, parent.ID))

	_, err = s.Service.Restore(context.Background(), s.Owner.ID, parent.ID)
	s.Require().NoError(err)

	subtasks, err := s.Service.GetSubtasks(context.Background(), s.Owner.ID, parent.ID)

	Expect(err).To(BeNil())
	Expect(subtasks).To(HaveLen(1))
	Expect(subtasks[0].Title).To(Equal("child"))
}

func (s *TodoServiceTestSuite) TestDeleteTwiceReportsNotFound() {
	created, err := s.Service.Create(context.Background(), s.Owner.ID, todoRequest("x"))
	s.Require().NoError(err)

	s.Require().NoError(s.Service.Delete(context.Background(), s.Owner.ID, created.ID))

	err = s.Service.Delete(context.Background(), s.Owner.ID, created.ID)

	Expect(errors.Is(err, domain.ErrNotFound)).To(BeTrue())
}

func (s *TodoServiceTestSuite) TestRestore() {
	created, err := s.Service.Create(context.Background(), s.Owner.ID, todoRequest("x"))
	s.Require().NoError(err)

	s.Require().NoError(s.Service.Delete(context.Background(), s.Owner.ID, created.ID))

	time.Sleep(10 * time.Millisecond)

	restored, err := s.Service.Restore(context.Background(), s.Owner.ID, created.ID)

	Expect(err).To(BeNil())
	Expect(restored.DeletedAt).To(BeNil())

	// The response reflects the audit fields the restore wrote, not the
	// pre-delete row.
	stored, err := s.TodoRepo.GetByIDAndOwner(context.Background(), created.ID, s.Owner.ID, false)
	Expect(err).To(BeNil())
	Expect(restored.UpdatedAt).To(Equal(stored.UpdatedAt))
	Expect(restored.UpdatedAt.After(created.UpdatedAt)).To(BeTrue())

	_, err = s.Service.GetByID(context.Background(), s.Owner.ID, created.ID)
	Expect(err).To(BeNil())
}

func (s *TodoServiceTestSuite) TestRestoreLiveTodoIsBadRequest() {
	created, err := s.Service.Create(context.Background(), s.Owner.ID, todoRequest("x"))
	s.Require().NoError(err)

	_, err = s.Service.Restore(context.Background(), s.Owner.ID, created.ID)

	Expect(errors.Is(err, domain.ErrBadRequest)).To(BeTrue())
}

func (s *TodoServiceTestSuite) TestSubtaskDepthLimit() {
	parent, err := s.Service.Create(context.Background(), s.Owner.ID, todoRequest("parent"))
	s.Require().NoError(err)

	child, err := s.Service.CreateSubtask(context.Background(), s.Owner.ID, parent.ID,
		todoRequest("child"))
	s.Require().NoError(err)

	_, err = s.Service.CreateSubtask(context.Background(), s.Owner.ID, child.ID,
		todoRequest("grandchild"))

	Expect(errors.Is(err, domain.ErrBadRequest)).To(BeTrue())
}

func (s *TodoServiceTestSuite) TestGetSubtasks() {
	parent, err := s.Service.Create(context.Background(), s.Owner.ID, todoRequest("parent"))
	s.Require().NoError(err)

	_, err = s.Service.CreateSubtask(context.Background(), s.Owner.ID, parent.ID,
		todoRequest("child"))
	s.Require().NoError(err)

	subtasks, err := s.Service.GetSubtasks(context.Background(), s.Owner.ID, parent.ID)

	Expect(err).To(BeNil())
	Expect(subtasks).To(HaveLen(1))
	Expect(subtasks[0].Title).To(Equal("child"))
}

func (s *TodoServiceTestSuite) TestGetSubtasksExcludesDeleted() {
	parent, err := s.Service.Create(context.Background(), s.Owner.ID, todoRequest("parent"))
	s.Require().NoError(err)

	kept, err := s.Service.CreateSubtask(context.Background(), s.Owner.ID, parent.ID,
		todoRequest("kept"))
	s.Require().NoError(err)

	trashed, err := s.Service.CreateSubtask(context.Background(), s.Owner.ID, parent.ID,
		todoRequest("trashed"))
	s.Require().NoError(err)

	s.Require().NoError(s.Service.Delete(context.Background(), s.Owner.ID, trashed.ID))

	subtasks, err := s.Service.GetSubtasks(context.Background(), s.Owner.ID, parent.ID)

	Expect(err).To(BeNil())
	Expect(subtasks).To(HaveLen(1))
	Expect(subtasks[0].ID).To(Equal(kept.ID))

	detail, err := s.Service.GetByID(context.Background(), s.Owner.ID, parent.ID)

	Expect(err).To(BeNil())
	Expect(detail.Subtasks).To(HaveLen(1))
	Expect(detail.Subtasks[0].ID).To(Equal(kept.ID))
}

func (s *TodoServiceTestSuite) TestUpdateStatus() {
	created, err := s.Service.Create(context.Background(), s.Owner.ID, todoRequest("x"))
	s.Require().NoError(err)

	updated, err := s.Service.UpdateStatus(context.Background(), s.Owner.ID, created.ID, domain.TodoStatusDone)

	Expect(err).To(BeNil())
	Expect(updated.Status).To(Equal("DONE"))
}

func (s *TodoServiceTestSuite) TestStatisticsExcludeCanceledAndDeleted() {
	for _, status := range []string{"PENDING", "PENDING", "IN_PROGRESS", "DONE", "CANCELED"} {
		req := todoRequest("t")
		req.Status = status

		_, err := s.Service.Create(context.Background(), s.Owner.ID, req)
		s.Require().NoError(err)
	}

	trashed, err := s.Service.Create(context.Background(), s.Owner.ID, todoRequest("trashed"))
	s.Require().NoError(err)
	s.Require().NoError(s.Service.Delete(context.Background(), s.Owner.ID, trashed.ID))

	stats, err := s.Service.GetStatistics(context.Background(), s.Owner.ID)

	Expect(err).To(BeNil())
	Expect(stats["PENDING"]).To(Equal(int64(2)))
	Expect(stats["IN_PROGRESS"]).To(Equal(int64(1)))
	Expect(stats["DONE"]).To(Equal(int64(1)))
	Expect(stats["TOTAL_ACTIVE"]).To(Equal(int64(4)))
	Expect(stats).ToNot(HaveKey("CANCELED"))
}

func (s *TodoServiceTestSuite) TestSearchByStatusAndQuery() {
	done := todoRequest("Pay rent")
	done.Status = "DONE"

	_, err := s.Service.Create(context.Background(), s.Owner.ID, done)
	s.Require().NoError(err)

	_, err = s.Service.Create(context.Background(), s.Owner.ID, todoRequest("Pay taxes"))
	s.Require().NoError(err)

	status := domain.TodoStatusPending

	page, err := s.Service.Search(context.Background(), s.Owner.ID,
		filter.TodoSearch{Query: "pay", Status: &status}, s.defaultPage())

	Expect(err).To(BeNil())
	Expect(page.TotalElements).To(Equal(int64(1)))
	Expect(page.Content[0].Title).To(Equal("Pay taxes"))
}

func (s *TodoServiceTestSuite) TestSearchWithForeignCategoryReturnsEmptyPage() {
	category, err := s.CategoryRepo.Create(context.Background(), factory.NewCategory(s.Other.ID))
	s.Require().NoError(err)

	_, err = s.Service.Create(context.Background(), s.Owner.ID, todoRequest("mine"))
	s.Require().NoError(err)

	// The owner clause guarantees a foreign category matches nothing; the
	// search succeeds with an empty page rather than failing.
	page, err := s.Service.Search(context.Background(), s.Owner.ID,
		filter.TodoSearch{CategoryID: &category.ID}, s.defaultPage())

	Expect(err).To(BeNil())
	Expect(page.TotalElements).To(Equal(int64(0)))
	Expect(page.Content).To(BeEmpty())
}

func (s *TodoServiceTestSuite) TestGetTrashedListsOnlyDeleted() {
	kept, err := s.Service.Create(context.Background(), s.Owner.ID, todoRequest("kept"))
	s.Require().NoError(err)

	trashed, err := s.Service.Create(context.Background(), s.Owner.ID, todoRequest("trashed"))
	s.Require().NoError(err)
	s.Require().NoError(s.Service.Delete(context.Background(), s.Owner.ID, trashed.ID))

	page, err := s.Service.GetTrashed(context.Background(), s.Owner.ID, s.defaultPage())

	Expect(err).To(BeNil())
	Expect(page.TotalElements).To(Equal(int64(1)))
	Expect(page.Content[0].ID).To(Equal(trashed.ID))
	Expect(page.Content[0].ID).ToNot(Equal(kept.ID))
}
