package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManagerCreation(t *testing.T) {
	Convey("Given manager creation", t, func() {
		Convey("When creating with a private registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("testns"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithRegistry(registry),
			)

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})
	})
}

func TestGlobalHelpers(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("When recording across every metric family", func() {
			RecordScoreComputation("computed")
			RecordScoreComputation("estimated")
			RecordScoreFailure()
			RecordScorerLatency("ugc", 12.5)
			RecordScorerError("ugc", "timeout")

			RecordCacheHit("results")
			RecordCacheMiss("pool")

			RecordBudgetReservation()
			RecordBudgetDenial()
			UpdateBudgetUsed(7)

			RecordJobSubmitted()
			RecordJobCompleted()
			RecordJobFailed()
			RecordJobRetried()
			RecordJobCancelled()
			RecordJobReassigned()
			RecordJobDuration(1.25)
			UpdateJobsPending(3)
			UpdateJobsRunning(2)
			UpdateWorkersBusy(2)
			UpdateWorkersTotal(4)

			RecordHTTPRequest("analyze", "POST", "200")
			RecordHTTPRequestDuration("analyze", "POST", 42)
			RecordErrorByComponent("http", "client_error")

			Convey("Then the registry gathers without error", func() {
				families, err := GetRegistry().Gather()
				So(err, ShouldBeNil)
				So(len(families), ShouldBeGreaterThan, 0)
			})
		})
	})
}
