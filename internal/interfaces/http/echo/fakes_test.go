package echo_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	calcapp "github.com/mohammadpnp/math-server/internal/application/calculation"
	notifyapp "github.com/mohammadpnp/math-server/internal/application/notification"
	personnelapp "github.com/mohammadpnp/math-server/internal/application/personnel"
	personnel "github.com/mohammadpnp/math-server/internal/domain/personnel"
	httpecho "github.com/mohammadpnp/math-server/internal/interfaces/http/echo"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func serve(t *testing.T, h httpecho.Handlers, method, target, user string, body io.Reader) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	e := echo.New()
	httpecho.RegisterRoutes(e, h)

	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if user != "" {
		req.Header.Set(httpecho.UserHeader, user)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec, env
}

func jsonBody(s string) io.Reader {
	return strings.NewReader(s)
}

type fakeCoordinator struct {
	out     personnelapp.RequestImportOutput
	status  *personnel.ImportStatus
	err     error
	gotUser string
}

func (f *fakeCoordinator) RequestImport(ctx context.Context, user string) (personnelapp.RequestImportOutput, error) {
	f.gotUser = user
	return f.out, f.err
}

func (f *fakeCoordinator) Status(ctx context.Context) (*personnel.ImportStatus, error) {
	return f.status, f.err
}

type fakeGetEmployee struct {
	out personnelapp.GetEmployeeOutput
	err error
}

func (f *fakeGetEmployee) Execute(ctx context.Context, in personnelapp.GetEmployeeInput) (personnelapp.GetEmployeeOutput, error) {
	return f.out, f.err
}

type fakeListModels struct {
	groups []calcapp.ModelGroup
}

func (f *fakeListModels) Execute() []calcapp.ModelGroup {
	return f.groups
}

type fakeGetJob struct {
	out calcapp.JobOutput
	err error
	got calcapp.GetJobInput
}

func (f *fakeGetJob) Execute(ctx context.Context, in calcapp.GetJobInput) (calcapp.JobOutput, error) {
	f.got = in
	return f.out, f.err
}

type fakeCalculate struct {
	out calcapp.CalculateOutput
	err error
	got calcapp.CalculateInput
}

func (f *fakeCalculate) Execute(ctx context.Context, in calcapp.CalculateInput) (calcapp.CalculateOutput, error) {
	f.got = in
	return f.out, f.err
}

type fakeSubmit struct {
	out calcapp.SubmitOutput
	err error
	got calcapp.SubmitInput
}

func (f *fakeSubmit) Execute(ctx context.Context, in calcapp.SubmitInput) (calcapp.SubmitOutput, error) {
	f.got = in
	return f.out, f.err
}

type fakeListNotifications struct {
	out []notifyapp.NotificationOutput
	err error
	got notifyapp.ListNotificationsInput
}

func (f *fakeListNotifications) Execute(ctx context.Context, in notifyapp.ListNotificationsInput) ([]notifyapp.NotificationOutput, error) {
	f.got = in
	return f.out, f.err
}

type fakeAcknowledge struct {
	out notifyapp.AcknowledgeNotificationsOutput
	err error
	got notifyapp.AcknowledgeNotificationsInput
}

func (f *fakeAcknowledge) Execute(ctx context.Context, in notifyapp.AcknowledgeNotificationsInput) (notifyapp.AcknowledgeNotificationsOutput, error) {
	f.got = in
	return f.out, f.err
}
