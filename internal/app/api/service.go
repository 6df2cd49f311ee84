package api

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/facebookgo/grace/gracehttp"
	"github.com/gorilla/mux"
	"github.com/heptiolabs/healthcheck"
	"github.com/meetscribe/meetscribe/internal/pkg/cmdapp"
	"github.com/meetscribe/meetscribe/internal/pkg/errs"
	"github.com/meetscribe/meetscribe/internal/pkg/messages"
	"github.com/meetscribe/meetscribe/internal/pkg/model"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// FileSaver stores and removes audio blobs
type FileSaver interface {
	Save(reader io.Reader, originalName string, meetingID string) (string, error)
	Delete(storagePath string) (bool, error)
}

// MeetingStorage is the meeting persistence used by handlers
type MeetingStorage interface {
	Create(m *model.Meeting) error
	Get(id string) (*model.Meeting, error)
	List(workspaceID string) ([]model.Meeting, error)
	Save(m *model.Meeting) error
	Delete(id string) error
}

// TaskStorage is the task persistence used by handlers
type TaskStorage interface {
	Create(t *model.ProcessingTask) error
	Get(id string) (*model.ProcessingTask, error)
	List(workspaceID string) ([]model.ProcessingTask, error)
	Save(t *model.ProcessingTask) error
}

// SummaryStorage persists user edits to a generated summary
type SummaryStorage interface {
	Upsert(s *model.Summary) error
}

// ActionItemStorage persists user edits to single action items
type ActionItemStorage interface {
	Save(a *model.ActionItem) error
}

type serviceMetric struct {
	uploadResponseDur prometheus.ObserverVec
	uploadRequestSize prometheus.ObserverVec
	taskResponseDur   prometheus.ObserverVec
}

// ServiceData keeps data required for service work
type ServiceData struct {
	Meetings    MeetingStorage
	Tasks       TaskStorage
	Summaries   SummaryStorage
	ActionItems ActionItemStorage
	Saver       FileSaver
	Enqueuer    messages.Enqueuer

	Port    int
	Health  healthcheck.Handler
	metrics serviceMetric
}

// StartWebServer starts the HTTP service and listens for the requests
func StartWebServer(data *ServiceData) error {
	cmdapp.Log.Infof("Starting HTTP service at %d", data.Port)
	r := NewRouter(data)

	portStr := strconv.Itoa(data.Port)
	srv := http.Server{
		Addr:              ":" + portStr,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       180 * time.Second,
		Handler:           r,
	}

	w := cmdapp.Log.Writer()
	defer w.Close()
	l := log.New(w, "", 0)
	gracehttp.SetLogger(l)

	return gracehttp.Serve(&srv)
}

// NewRouter creates the router for HTTP service
func NewRouter(data *ServiceData) *mux.Router {
	initMetrics(data)
	if data.Health == nil {
		data.Health = healthcheck.NewHandler()
	}
	router := mux.NewRouter().StrictSlash(true)
	uh := promhttp.InstrumentHandlerDuration(data.metrics.uploadResponseDur,
		promhttp.InstrumentHandlerRequestSize(data.metrics.uploadRequestSize, uploadHandler{data: data}))
	th := func(h http.Handler) http.Handler {
		return promhttp.InstrumentHandlerDuration(data.metrics.taskResponseDur, h)
	}
	router.Methods("POST").Path("/upload").Handler(uh)
	router.Methods("GET").Path("/tasks").Handler(th(taskListHandler{data: data}))
	router.Methods("GET").Path("/tasks/{id}").Handler(th(taskHandler{data: data}))
	router.Methods("POST").Path("/tasks/{id}/finalize").Handler(th(finalizeHandler{data: data}))
	router.Methods("GET").Path("/meetings").Handler(th(meetingListHandler{data: data}))
	router.Methods("GET").Path("/meetings/{id}").Handler(th(meetingHandler{data: data}))
	router.Methods("PATCH").Path("/meetings/{id}").Handler(th(meetingUpdateHandler{data: data}))
	router.Methods("DELETE").Path("/meetings/{id}").Handler(th(meetingDeleteHandler{data: data}))
	router.Methods("GET").Path("/metrics").Handler(promhttp.Handler())
	router.Methods("GET").Path("/live").HandlerFunc(data.Health.LiveEndpoint)
	router.Methods("GET").Path("/ready").HandlerFunc(data.Health.ReadyEndpoint)
	return router
}

func initMetrics(data *ServiceData) {
	if data.metrics.uploadResponseDur != nil {
		return
	}
	data.metrics.uploadResponseDur = newDurMetric("upload")
	data.metrics.uploadRequestSize = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "upload_request_size_bytes",
			Help: "Upload request size in bytes",
		}, nil)
	data.metrics.taskResponseDur = newDurMetric("task")
	registerMetric(data.metrics.uploadResponseDur)
	registerMetric(data.metrics.uploadRequestSize)
	registerMetric(data.metrics.taskResponseDur)
}

func newDurMetric(name string) prometheus.ObserverVec {
	return prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: name + "_request_durations_seconds",
			Help: name + " request latencies in seconds",
		}, nil)
}

func registerMetric(m prometheus.Collector) {
	if err := prometheus.Register(m); err != nil {
		// tests build several routers in one process
		cmdapp.Log.Warn("Can't register metric: ", err)
	}
}

// workspaceID takes the tenant from the X-Workspace-ID header or the
// workspace query parameter. Empty means the default workspace.
func workspaceID(r *http.Request) string {
	if ws := r.Header.Get("X-Workspace-ID"); ws != "" {
		return ws
	}
	return r.URL.Query().Get("workspace")
}

func encodeResponse(w http.ResponseWriter, result interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		http.Error(w, "Can not prepare result", http.StatusInternalServerError)
		cmdapp.Log.Error(err)
	}
}

// respondError maps the error taxonomy onto HTTP codes
func respondError(w http.ResponseWriter, err error) {
	var nfErr *errs.NotFoundError
	var vErr *errs.ValidationError
	switch {
	case errors.As(err, &nfErr):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.As(err, &vErr):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
	cmdapp.Log.Error(err)
}
