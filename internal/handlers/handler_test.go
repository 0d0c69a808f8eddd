package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shrimpsizemoose/encore/internal/app"
	"github.com/shrimpsizemoose/encore/internal/models"
	"github.com/shrimpsizemoose/encore/internal/store/storetest"
)

type testServer struct {
	fixture *storetest.Fixture
	mux     *http.ServeMux
	judges  []string
}

func setup(t *testing.T) *testServer {
	f := storetest.New(t)
	f.Event("ev1")
	f.Studio("st1", "Step Up Studio")
	f.Contestant("owner1", "Olga Owner")
	f.Dancer("d1", "E1001", "Ada Lovelace", "st1")
	judges := f.Judges("ev1", 3)

	config, err := app.ParseConfig("test.toml", []byte("[server]\nport = \":0\"\n[database]\ndsn = \":memory:\"\n"))
	require.NoError(t, err)

	mux := http.NewServeMux()
	NewHandler(app.NewServiceWith(config, f.Store, nil)).Register(mux)
	return &testServer{fixture: f, mux: mux, judges: judges}
}

func (s *testServer) do(t *testing.T, method, path, body string, dest interface{}) int {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.mux.ServeHTTP(rec, req)

	if dest != nil && rec.Code < 300 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dest), rec.Body.String())
	}
	return rec.Code
}

func (s *testServer) approvedEntry() *models.EventEntry {
	return s.fixture.Entry(models.EventEntry{
		EventID:         "ev1",
		OwnerID:         "owner1",
		ParticipantIDs:  models.StringList{"d1"},
		ItemName:        "Swan Song",
		Style:           "Ballet",
		PerformanceType: "Solo",
		Approved:        true,
	})
}

func TestPerformanceLifecycle(t *testing.T) {
	s := setup(t)
	entry := s.approvedEntry()

	var p models.Performance
	require.Equal(t, http.StatusOK, s.do(t, "POST", "/api/v1/entries/"+entry.ID+"/performance", "", &p))
	assert.Equal(t, models.StringList{"Ada Lovelace"}, p.ParticipantNames)

	var again models.Performance
	require.Equal(t, http.StatusOK, s.do(t, "POST", "/api/v1/entries/"+entry.ID+"/performance", "", &again))
	assert.Equal(t, p.ID, again.ID)

	var scoreIDs []string
	for i, judge := range s.judges {
		body := fmt.Sprintf(`{"judge_id":%q,"technical_score":18,"musical_score":18,"performance_score":18,"styling_score":18,"overall_impression_score":%d}`, judge, 16+i)
		var score models.Score
		require.Equal(t, http.StatusCreated, s.do(t, "POST", "/api/v1/performances/"+p.ID+"/scores", body, &score))
		scoreIDs = append(scoreIDs, score.ID)
	}

	dup := fmt.Sprintf(`{"judge_id":%q,"technical_score":1}`, s.judges[0])
	assert.Equal(t, http.StatusConflict, s.do(t, "POST", "/api/v1/performances/"+p.ID+"/scores", dup, nil))

	var scoring struct {
		IsFullyScored bool `json:"is_fully_scored"`
		Percentage    int  `json:"percentage"`
	}
	require.Equal(t, http.StatusOK, s.do(t, "GET", "/api/v1/performances/"+p.ID+"/scoring", "", &scoring))
	assert.True(t, scoring.IsFullyScored)
	assert.Equal(t, 89, scoring.Percentage)

	var published struct {
		AlreadyPublished bool `json:"already_published"`
	}
	require.Equal(t, http.StatusOK, s.do(t, "POST", "/api/v1/performances/"+p.ID+"/publish", `{"approver_id":"admin"}`, &published))
	assert.False(t, published.AlreadyPublished)

	var status statusResponse
	require.Equal(t, http.StatusOK, s.do(t, "PUT", "/api/v1/performances/"+p.ID+"/status", `{"status":"completed"}`, &status))
	assert.True(t, status.Changed)
	assert.Equal(t, models.StatusScheduled, status.PreviousStatus)
	require.NotNil(t, status.Certificate)
	assert.Equal(t, "Legend", status.Certificate.Medallion)
	assert.Equal(t, "Ada Lovelace", status.Certificate.DisplayName)
	assert.Empty(t, status.CertificateError)

	edit := fmt.Sprintf(`{"performance_id":%q,"judge_id":%q,"editor_id":"admin","total_only":true,"total":99}`, p.ID, s.judges[0])
	require.Equal(t, http.StatusOK, s.do(t, "PUT", "/api/v1/scores/"+scoreIDs[0], edit, nil))

	var audits struct {
		Rows []models.ScoreAudit `json:"rows"`
	}
	require.Equal(t, http.StatusOK, s.do(t, "GET", "/api/v1/scores/"+scoreIDs[0]+"/audits", "", &audits))
	assert.Len(t, audits.Rows, 1)

	var cert models.Certificate
	require.Equal(t, http.StatusOK, s.do(t, "POST", "/api/v1/performances/"+p.ID+"/certificate/downloaded", "", &cert))
	assert.NotNil(t, cert.DownloadedAt)
}

func TestErrorStatusCodes(t *testing.T) {
	s := setup(t)
	unapproved := s.fixture.Entry(models.EventEntry{EventID: "ev1", OwnerID: "owner1", ParticipantIDs: models.StringList{"d1"}})
	orphan := s.fixture.Entry(models.EventEntry{EventID: "ev1", OwnerID: "ghost", ParticipantIDs: models.StringList{"nobody"}, Approved: true})
	p := s.fixture.Performance(s.approvedEntry())

	tests := []struct {
		name     string
		method   string
		path     string
		body     string
		expected int
	}{
		{"unknown entry", "POST", "/api/v1/entries/missing/performance", "", http.StatusNotFound},
		{"unapproved entry", "POST", "/api/v1/entries/" + unapproved.ID + "/performance", "", http.StatusBadRequest},
		{"no valid contestant", "POST", "/api/v1/entries/" + orphan.ID + "/performance", "", http.StatusUnprocessableEntity},
		{"unknown event", "POST", "/api/v1/events/nope/reconcile", "", http.StatusNotFound},
		{"invalid status", "PUT", "/api/v1/performances/" + p.ID + "/status", `{"status":"done"}`, http.StatusBadRequest},
		{"malformed body", "PUT", "/api/v1/performances/" + p.ID + "/status", `{`, http.StatusBadRequest},
		{"unknown performance", "GET", "/api/v1/performances/missing/scoring", "", http.StatusNotFound},
		{"certificate without scores", "POST", "/api/v1/performances/" + p.ID + "/certificate", "", http.StatusBadRequest},
		{"unknown score", "GET", "/api/v1/scores/missing/audits", "", http.StatusNotFound},
		{"non positive item number", "PUT", "/api/v1/entries/" + p.EventEntryID + "/item-number", `{"item_number":0}`, http.StatusBadRequest},
		{"wrong method", "GET", "/api/v1/performances/" + p.ID + "/publish", "", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, s.do(t, tt.method, tt.path, tt.body, nil))
		})
	}
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusConflict, statusFor(models.ErrItemNumberLocked))
	assert.Equal(t, http.StatusServiceUnavailable, statusFor(models.ErrDependency))
	assert.Equal(t, http.StatusInternalServerError, statusFor(errors.New("boom")))
}
