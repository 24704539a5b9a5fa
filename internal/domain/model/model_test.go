package model_test

import (
	"testing"

	"github.com/vizor-ai/vizor/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestJobPriorityRank(t *testing.T) {
	Convey("Given the priority ladder", t, func() {
		Convey("Then ranks order critical first", func() {
			So(model.PriorityCritical.Rank(), ShouldBeGreaterThan, model.PriorityHigh.Rank())
			So(model.PriorityHigh.Rank(), ShouldBeGreaterThan, model.PriorityMedium.Rank())
			So(model.PriorityMedium.Rank(), ShouldBeGreaterThan, model.PriorityLow.Rank())
		})

		Convey("Then unknown priorities rank zero and are invalid", func() {
			So(model.JobPriority("urgent").Rank(), ShouldEqual, 0)
			So(model.JobPriority("urgent").Valid(), ShouldBeFalse)
			So(model.PriorityLow.Valid(), ShouldBeTrue)
		})
	})
}

func TestJobStatusTerminal(t *testing.T) {
	Convey("Given job statuses", t, func() {
		Convey("Then only finished states are terminal", func() {
			So(model.JobPending.Terminal(), ShouldBeFalse)
			So(model.JobRunning.Terminal(), ShouldBeFalse)
			So(model.JobCompleted.Terminal(), ShouldBeTrue)
			So(model.JobFailed.Terminal(), ShouldBeTrue)
			So(model.JobCancelled.Terminal(), ShouldBeTrue)
		})
	})
}

func TestWorkerCan(t *testing.T) {
	Convey("Given a worker with a type and extra capabilities", t, func() {
		w := model.Worker{
			Type:         model.CapDataProcessor,
			Capabilities: []string{model.CapReporter},
		}

		Convey("Then the type counts as a capability", func() {
			So(w.Can(model.CapDataProcessor), ShouldBeTrue)
		})

		Convey("Then listed capabilities count", func() {
			So(w.Can(model.CapReporter), ShouldBeTrue)
		})

		Convey("Then anything else does not", func() {
			So(w.Can(model.CapMaintenance), ShouldBeFalse)
		})
	})
}

func TestScoreRecordComponent(t *testing.T) {
	Convey("Given a record with components", t, func() {
		rec := model.ScoreRecord{Components: []model.ScoreComponent{
			{Source: "ugc", Value: 70},
			{Source: "geo_trust", Value: 90},
		}}

		Convey("Then lookup by source works", func() {
			c, ok := rec.Component("geo_trust")
			So(ok, ShouldBeTrue)
			So(c.Value, ShouldEqual, 90)

			_, ok = rec.Component("ai_mention")
			So(ok, ShouldBeFalse)
		})
	})
}
