package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	api "github.com/vizor-ai/vizor/internal/adapters/http/api"
	"github.com/vizor-ai/vizor/internal/domain/aggregate"
	"github.com/vizor-ai/vizor/internal/domain/model"
	orchestrator "github.com/vizor-ai/vizor/internal/orchestrator"
	. "github.com/smartystreets/goconvey/convey"
)

// fakeService backs the API with canned behavior.
type fakeService struct {
	scoreErr error
	record   model.ScoreRecord
	orch     *orchestrator.Orchestrator
}

func (f *fakeService) ComputeScore(_ context.Context, subject string) (model.ScoreRecord, error) {
	if f.scoreErr != nil {
		return model.ScoreRecord{}, f.scoreErr
	}
	rec := f.record
	rec.Subject = aggregate.Normalize(subject)
	return rec, nil
}

func (f *fakeService) Recompute(ctx context.Context, subject string) (model.ScoreRecord, error) {
	return f.ComputeScore(ctx, subject)
}

func (f *fakeService) GetStats(context.Context) map[string]any {
	return map[string]any{"started": true}
}

func newTestServer(f *fakeService) *httptest.Server {
	if f.orch == nil {
		f.orch = orchestrator.New()
	}
	mux := http.NewServeMux()
	api.NewServer(f, f.orch, f).Register(context.Background(), mux)
	return httptest.NewServer(mux)
}

func postJSON(url, body string) (*http.Response, error) {
	return http.Post(url, "application/json", strings.NewReader(body)) //nolint:noctx // test helper
}

func TestAnalyzeEndpoint(t *testing.T) {
	Convey("Given the API over a working score service", t, func() {
		f := &fakeService{record: model.ScoreRecord{
			Overall:    70,
			Confidence: 0.8,
			Provenance: model.ProvenanceEstimated,
		}}
		srv := newTestServer(f)
		defer srv.Close()

		Convey("When posting a valid analyze request", func() {
			resp, err := postJSON(srv.URL+"/analyze", `{"subject":"Example.com"}`)
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then the score record is returned", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				var rec model.ScoreRecord
				So(json.NewDecoder(resp.Body).Decode(&rec), ShouldBeNil)
				So(rec.Subject, ShouldEqual, "example.com")
				So(rec.Overall, ShouldEqual, 70)
				So(rec.Provenance, ShouldEqual, model.ProvenanceEstimated)
			})
		})

		Convey("When the subject is missing", func() {
			resp, err := postJSON(srv.URL+"/analyze", `{}`)
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then a 400 is returned", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the body is not JSON", func() {
			resp, err := postJSON(srv.URL+"/analyze", `{{{`)
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then a 400 is returned", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			})
		})
	})

	Convey("Given a score service with every source down", t, func() {
		f := &fakeService{scoreErr: aggregate.ErrAllSourcesFailed}
		srv := newTestServer(f)
		defer srv.Close()

		Convey("When posting an analyze request", func() {
			resp, err := postJSON(srv.URL+"/analyze", `{"subject":"example.com"}`)
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then a 503 is returned", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusServiceUnavailable)
			})
		})
	})
}

func TestJobEndpoints(t *testing.T) {
	Convey("Given the API over a live orchestrator", t, func() {
		f := &fakeService{}
		srv := newTestServer(f)
		defer srv.Close()

		Convey("When submitting a job", func() {
			resp, err := postJSON(srv.URL+"/jobs", `{"type":"analysis","priority":"high","payload":{"subject":"example.com"}}`)
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			var job model.Job
			So(resp.StatusCode, ShouldEqual, http.StatusAccepted)
			So(json.NewDecoder(resp.Body).Decode(&job), ShouldBeNil)
			So(job.ID, ShouldNotBeEmpty)
			So(job.Status, ShouldEqual, model.JobPending)

			Convey("Then it can be fetched by id", func() {
				getResp, err := http.Get(srv.URL + "/jobs/" + job.ID) //nolint:noctx // test
				So(err, ShouldBeNil)
				defer getResp.Body.Close()
				So(getResp.StatusCode, ShouldEqual, http.StatusOK)
			})

			Convey("And it appears in the listing", func() {
				listResp, err := http.Get(srv.URL + "/jobs") //nolint:noctx // test
				So(err, ShouldBeNil)
				defer listResp.Body.Close()
				var jobs []model.Job
				So(json.NewDecoder(listResp.Body).Decode(&jobs), ShouldBeNil)
				So(len(jobs), ShouldEqual, 1)
			})

			Convey("And it can be cancelled", func() {
				req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/jobs/"+job.ID, nil)
				delResp, err := http.DefaultClient.Do(req)
				So(err, ShouldBeNil)
				defer delResp.Body.Close()
				So(delResp.StatusCode, ShouldEqual, http.StatusOK)

				Convey("And a second cancel conflicts", func() {
					req2, _ := http.NewRequest(http.MethodDelete, srv.URL+"/jobs/"+job.ID, nil)
					delResp2, err := http.DefaultClient.Do(req2)
					So(err, ShouldBeNil)
					defer delResp2.Body.Close()
					So(delResp2.StatusCode, ShouldEqual, http.StatusConflict)
				})
			})
		})

		Convey("When submitting an invalid job type", func() {
			resp, err := postJSON(srv.URL+"/jobs", `{"type":"mystery"}`)
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then a 400 is returned", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When fetching an unknown job", func() {
			resp, err := http.Get(srv.URL + "/jobs/missing") //nolint:noctx // test
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then a 404 is returned", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
			})
		})

		Convey("When reading orchestrator metrics", func() {
			resp, err := http.Get(srv.URL + "/orchestrator/metrics") //nolint:noctx // test
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then a snapshot is returned", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				var m orchestrator.Metrics
				So(json.NewDecoder(resp.Body).Decode(&m), ShouldBeNil)
			})
		})
	})
}

func TestWorkerEndpoints(t *testing.T) {
	Convey("Given the API over a live orchestrator", t, func() {
		f := &fakeService{}
		srv := newTestServer(f)
		defer srv.Close()

		Convey("When registering a worker", func() {
			resp, err := postJSON(srv.URL+"/workers", `{"name":"w1","type":"ai_analyzer"}`)
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			var worker model.Worker
			So(resp.StatusCode, ShouldEqual, http.StatusCreated)
			So(json.NewDecoder(resp.Body).Decode(&worker), ShouldBeNil)
			So(worker.Status, ShouldEqual, model.WorkerIdle)

			Convey("Then it accepts heartbeats", func() {
				hbResp, err := postJSON(srv.URL+"/workers/"+worker.ID+"/heartbeat", `{}`)
				So(err, ShouldBeNil)
				defer hbResp.Body.Close()
				So(hbResp.StatusCode, ShouldEqual, http.StatusOK)
			})

			Convey("And it appears in the listing", func() {
				listResp, err := http.Get(srv.URL + "/workers") //nolint:noctx // test
				So(err, ShouldBeNil)
				defer listResp.Body.Close()
				var workers []model.Worker
				So(json.NewDecoder(listResp.Body).Decode(&workers), ShouldBeNil)
				So(len(workers), ShouldEqual, 1)
			})
		})

		Convey("When registering without a name", func() {
			resp, err := postJSON(srv.URL+"/workers", `{"type":"reporter"}`)
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then a 400 is returned", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When heartbeating an unknown worker", func() {
			resp, err := postJSON(srv.URL+"/workers/missing/heartbeat", `{}`)
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then a 404 is returned", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestStatsAndHealth(t *testing.T) {
	Convey("Given the API", t, func() {
		f := &fakeService{}
		srv := newTestServer(f)
		defer srv.Close()

		Convey("When requesting stats", func() {
			resp, err := http.Get(srv.URL + "/stats") //nolint:noctx // test
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then the provider payload is returned", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				var stats map[string]any
				So(json.NewDecoder(resp.Body).Decode(&stats), ShouldBeNil)
				So(stats["started"], ShouldEqual, true)
			})
		})

		Convey("When requesting health", func() {
			resp, err := http.Get(srv.URL + "/healthz") //nolint:noctx // test
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then the service reports ok", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
			})
		})

		Convey("When scraping metrics", func() {
			resp, err := http.Get(srv.URL + "/metrics") //nolint:noctx // test
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then the exposition endpoint responds", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
			})
		})
	})
}
