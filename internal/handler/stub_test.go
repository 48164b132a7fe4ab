package handler

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	mw "github.com/archlabs/design-arena/internal/middleware"
	"github.com/archlabs/design-arena/internal/model"
	"github.com/archlabs/design-arena/internal/repository"
	"github.com/archlabs/design-arena/internal/service"
)

// stubDesigns implements service.DesignStore with overridable function
// fields so each test wires only the calls it expects.
type stubDesigns struct {
	getByID    func(id uint64) (*model.Design, error)
	getDraft   func(userID, scenarioID uint64) (*model.Design, error)
	create     func(userID, scenarioID uint64, diagram, text string) (*model.Design, error)
	update     func(id, userID uint64, diagram, text string) (*model.Design, error)
	submit     func(id, userID uint64) (*model.Design, error)
	markGraded func(id uint64) error
	listByUser func(userID uint64, status string) ([]*model.DesignListItem, error)
	listAll    func(status string) ([]*model.DesignListItem, error)
	getDetail  func(id uint64) (*model.DesignDetail, error)
}

func (s *stubDesigns) GetByID(_ context.Context, id uint64) (*model.Design, error) {
	return s.getByID(id)
}
func (s *stubDesigns) GetDraftByUserAndScenario(_ context.Context, userID, scenarioID uint64) (*model.Design, error) {
	return s.getDraft(userID, scenarioID)
}
func (s *stubDesigns) Create(_ context.Context, userID, scenarioID uint64, diagram, text string) (*model.Design, error) {
	return s.create(userID, scenarioID, diagram, text)
}
func (s *stubDesigns) UpdateDraft(_ context.Context, id, userID uint64, diagram, text string) (*model.Design, error) {
	return s.update(id, userID, diagram, text)
}
func (s *stubDesigns) Submit(_ context.Context, id, userID uint64) (*model.Design, error) {
	return s.submit(id, userID)
}
func (s *stubDesigns) MarkGraded(_ context.Context, id uint64) error {
	return s.markGraded(id)
}
func (s *stubDesigns) ListByUser(_ context.Context, userID uint64, status string) ([]*model.DesignListItem, error) {
	return s.listByUser(userID, status)
}
func (s *stubDesigns) ListAll(_ context.Context, status string) ([]*model.DesignListItem, error) {
	return s.listAll(status)
}
func (s *stubDesigns) GetDetail(_ context.Context, id uint64) (*model.DesignDetail, error) {
	return s.getDetail(id)
}

type stubFeedback struct {
	upsert    func(designID, adminID uint64, rating int, comments string) (*model.Feedback, error)
	getDetail func(designID uint64) (*model.FeedbackDetail, error)
}

func (s *stubFeedback) Upsert(_ context.Context, designID, adminID uint64, rating int, comments string) (*model.Feedback, error) {
	return s.upsert(designID, adminID, rating, comments)
}
func (s *stubFeedback) GetDetailByDesign(_ context.Context, designID uint64) (*model.FeedbackDetail, error) {
	return s.getDetail(designID)
}

type stubScenarios struct {
	getByID func(id uint64) (*model.Scenario, error)
}

func (s *stubScenarios) GetByID(_ context.Context, id uint64) (*model.Scenario, error) {
	return s.getByID(id)
}

// scenarioAlwaysThere is the common case: the scenario exists.
func scenarioAlwaysThere() *stubScenarios {
	return &stubScenarios{getByID: func(id uint64) (*model.Scenario, error) {
		return &model.Scenario{ID: id, Title: "scenario"}, nil
	}}
}

func noScenario() *stubScenarios {
	return &stubScenarios{getByID: func(uint64) (*model.Scenario, error) {
		return nil, repository.ErrScenarioNotFound
	}}
}

func newService(d *stubDesigns, f *stubFeedback, s *stubScenarios) *service.DesignService {
	if f == nil {
		f = &stubFeedback{}
	}
	if s == nil {
		s = scenarioAlwaysThere()
	}
	return service.NewDesignService(d, f, s, nil)
}

// newAuthedRequest builds an echo context carrying the claims JWTAuth
// would have injected.
func newAuthedRequest(t *testing.T, method, target, body string, userID uint64, role string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	var rd *strings.Reader
	if body != "" {
		rd = strings.NewReader(body)
	} else {
		rd = strings.NewReader("")
	}
	req := httptest.NewRequest(method, target, rd)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(mw.CtxUserID, userID)
	c.Set(mw.CtxRole, role)
	return c, rec
}
