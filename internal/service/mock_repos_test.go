package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/EnchantedPupu/atlas-backend-sub001/internal/model"
	"github.com/EnchantedPupu/atlas-backend-sub001/internal/repository"
	pkgerrors "github.com/EnchantedPupu/atlas-backend-sub001/pkg/errors"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User // key: user_id 与 "username:"+username
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) add(id, name, role string) *model.User {
	u := &model.User{UserID: id, Username: id, Name: name, Role: role, IsActive: true}
	m.users[id] = u
	m.users["username:"+u.Username] = u
	return u
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok && u.IsActive {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	if u, ok := m.users["username:"+username]; ok && u.IsActive {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) ListByIDs(_ context.Context, ids []string) ([]model.User, error) {
	var result []model.User
	seen := make(map[string]bool)
	for _, id := range ids {
		if u, ok := m.users[id]; ok && !seen[id] {
			seen[id] = true
			result = append(result, *u)
		}
	}
	return result, nil
}

func (m *mockUserRepo) ListWithFilters(_ context.Context, filters *repository.UserListFilters, offset, limit int) ([]model.User, int64, error) {
	var all []model.User
	for key, u := range m.users {
		if key != u.UserID || !u.IsActive {
			continue
		}
		if filters != nil && filters.Role != "" && u.Role != filters.Role {
			continue
		}
		if filters != nil && filters.Keyword != "" && !strings.Contains(u.Name, filters.Keyword) {
			continue
		}
		all = append(all, *u)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Role != all[j].Role {
			return all[i].Role < all[j].Role
		}
		return all[i].Name < all[j].Name
	})
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

// ── Mock SurveyJobRepository ──
// 存储副本，避免服务层对返回对象的修改绕过 UpdateWorkflow

type mockSurveyJobRepo struct {
	jobs      map[string]*model.SurveyJob
	seq       int
	updateErr error
}

func newMockSurveyJobRepo() *mockSurveyJobRepo {
	return &mockSurveyJobRepo{jobs: make(map[string]*model.SurveyJob)}
}

func (m *mockSurveyJobRepo) Create(_ context.Context, job *model.SurveyJob) error {
	for _, j := range m.jobs {
		if j.JobNumber == job.JobNumber {
			return fmt.Errorf("duplicate job_number %s", job.JobNumber)
		}
	}
	m.seq++
	if job.SurveyJobID == "" {
		job.SurveyJobID = fmt.Sprintf("job-%d", m.seq)
	}
	now := time.Now()
	job.CreatedAt, job.UpdatedAt, job.Version = now, now, 1
	cp := *job
	m.jobs[job.SurveyJobID] = &cp
	return nil
}

func (m *mockSurveyJobRepo) get(id string) (*model.SurveyJob, error) {
	if j, ok := m.jobs[id]; ok {
		cp := *j
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSurveyJobRepo) GetByID(_ context.Context, id string) (*model.SurveyJob, error) {
	return m.get(id)
}

func (m *mockSurveyJobRepo) GetByIDForUpdate(_ context.Context, id string) (*model.SurveyJob, error) {
	return m.get(id)
}

func (m *mockSurveyJobRepo) GetByJobNumber(_ context.Context, jobNumber string) (*model.SurveyJob, error) {
	for _, j := range m.jobs {
		if j.JobNumber == jobNumber {
			cp := *j
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSurveyJobRepo) UpdateWorkflow(_ context.Context, job *model.SurveyJob) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	stored, ok := m.jobs[job.SurveyJobID]
	if !ok || stored.Version != job.Version {
		return pkgerrors.ErrOptimisticLock
	}
	job.Version++
	job.UpdatedAt = time.Now()
	cp := *job
	m.jobs[job.SurveyJobID] = &cp
	return nil
}

func (m *mockSurveyJobRepo) List(_ context.Context, filters *repository.SurveyJobListFilters, offset, limit int) ([]model.SurveyJob, int64, error) {
	var all []model.SurveyJob
	for _, j := range m.jobs {
		if filters != nil {
			if filters.AssignedTo != "" && !j.IsAssignedTo(filters.AssignedTo) {
				continue
			}
			if filters.Status != "" && j.Status != filters.Status {
				continue
			}
			if filters.PbtStatus != "" && j.PbtStatus != filters.PbtStatus {
				continue
			}
		}
		all = append(all, *j)
	}
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

// ── Mock ReviewRepository ──

type mockReviewRepo struct {
	reviews   []*model.Review
	createErr error
	markErr   error
	marked    int
}

func newMockReviewRepo() *mockReviewRepo {
	return &mockReviewRepo{}
}

func (m *mockReviewRepo) Create(_ context.Context, review *model.Review) error {
	if m.createErr != nil {
		return m.createErr
	}
	review.ReviewID = fmt.Sprintf("review-%d", len(m.reviews)+1)
	review.CreatedAt = time.Now()
	review.UpdatedAt = review.CreatedAt
	cp := *review
	m.reviews = append(m.reviews, &cp)
	return nil
}

func (m *mockReviewRepo) GetActiveByJob(_ context.Context, surveyJobID string) (*model.Review, error) {
	for i := len(m.reviews) - 1; i >= 0; i-- {
		if m.reviews[i].SurveyJobID == surveyJobID {
			cp := *m.reviews[i]
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockReviewRepo) ListByJob(_ context.Context, surveyJobID string) ([]model.Review, error) {
	var result []model.Review
	for _, r := range m.reviews {
		if r.SurveyJobID == surveyJobID {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (m *mockReviewRepo) MarkReturned(_ context.Context, reviewID, returnedDate string) error {
	if m.markErr != nil {
		return m.markErr
	}
	for _, r := range m.reviews {
		if r.ReviewID != reviewID {
			continue
		}
		info := r.Info()
		if info.QueryReturned != "" {
			return gorm.ErrRecordNotFound
		}
		info.QueryReturned = returnedDate
		r.QueryInfo = datatypes.NewJSONType(info)
		m.marked++
		return nil
	}
	return gorm.ErrRecordNotFound
}

// ── Mock JobHistoryRepository ──

type mockJobHistoryRepo struct {
	rows      []model.JobHistory
	createErr error
}

func newMockJobHistoryRepo() *mockJobHistoryRepo {
	return &mockJobHistoryRepo{}
}

func (m *mockJobHistoryRepo) Create(_ context.Context, h *model.JobHistory) error {
	if m.createErr != nil {
		return m.createErr
	}
	h.HistoryID = fmt.Sprintf("history-%d", len(m.rows)+1)
	h.CreatedAt = time.Now()
	m.rows = append(m.rows, *h)
	return nil
}

func (m *mockJobHistoryRepo) ListByJob(_ context.Context, surveyJobID string, offset, limit int) ([]model.JobHistory, int64, error) {
	all, _ := m.ListAllByJob(context.Background(), surveyJobID)
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockJobHistoryRepo) ListAllByJob(_ context.Context, surveyJobID string) ([]model.JobHistory, error) {
	var result []model.JobHistory
	for _, h := range m.rows {
		if h.SurveyJobID == surveyJobID {
			result = append(result, h)
		}
	}
	return result, nil
}

func (m *mockJobHistoryRepo) forJob(jobID string) []model.JobHistory {
	rows, _ := m.ListAllByJob(context.Background(), jobID)
	return rows
}

// ── 测试聚合 ──

type testRepos struct {
	users   *mockUserRepo
	jobs    *mockSurveyJobRepo
	reviews *mockReviewRepo
	history *mockJobHistoryRepo
}

func newTestRepos() *testRepos {
	return &testRepos{
		users:   newMockUserRepo(),
		jobs:    newMockSurveyJobRepo(),
		reviews: newMockReviewRepo(),
		history: newMockJobHistoryRepo(),
	}
}

func (r *testRepos) repository() *repository.Repository {
	return &repository.Repository{
		User:       r.users,
		SurveyJob:  r.jobs,
		Review:     r.reviews,
		JobHistory: r.history,
	}
}
