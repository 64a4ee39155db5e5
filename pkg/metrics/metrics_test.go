package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
				So(manager.namespace, ShouldEqual, "painel")
				So(manager.subsystem, ShouldEqual, "dashboard")
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test_namespace"),
				WithSubsystem("test_subsystem"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithConstLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then the options should be applied", func() {
				So(manager.namespace, ShouldEqual, "test_namespace")
				So(manager.subsystem, ShouldEqual, "test_subsystem")
				So(manager.histogramBuckets, ShouldResemble, []float64{0.1, 0.5, 1.0})
			})

			Convey("And metrics should be registered with the const labels", func() {
				manager.discoveredEndpoints.Set(3)
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				So(len(families), ShouldBeGreaterThan, 0)
				found := false
				for _, f := range families {
					if f.GetName() == "test_namespace_test_subsystem_discovered_endpoints" {
						found = true
						So(f.GetMetric()[0].GetLabel()[0].GetValue(), ShouldEqual, "test")
					}
				}
				So(found, ShouldBeTrue)
			})
		})

		Convey("When empty options are passed", func() {
			manager := NewManager(
				WithNamespace(""),
				WithSubsystem(""),
				WithHistogramBuckets(nil),
				WithPrometheusRegistry(prometheus.NewRegistry()),
			)

			Convey("Then defaults should be kept", func() {
				So(manager.namespace, ShouldEqual, "painel")
				So(manager.subsystem, ShouldEqual, "dashboard")
				So(len(manager.histogramBuckets), ShouldBeGreaterThan, 0)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When recording upstream requests", func() {
			before := testutil.ToFloat64(globalManager.upstreamRequests.WithLabelValues("json", OutcomeOK))
			RecordUpstreamRequest("json", OutcomeOK, 12)
			RecordUpstreamRequest("json", OutcomeOK, 30)

			Convey("Then the counter should advance", func() {
				after := testutil.ToFloat64(globalManager.upstreamRequests.WithLabelValues("json", OutcomeOK))
				So(after-before, ShouldEqual, 2)
			})
		})

		Convey("When recording report runs", func() {
			before := testutil.ToFloat64(globalManager.reportRuns.WithLabelValues("group_by_regime", OutcomeParseError))
			RecordReportRun("group_by_regime", OutcomeParseError, 4)

			Convey("Then the counter should advance", func() {
				after := testutil.ToFloat64(globalManager.reportRuns.WithLabelValues("group_by_regime", OutcomeParseError))
				So(after-before, ShouldEqual, 1)
			})
		})

		Convey("When updating dashboard gauges", func() {
			UpdateDiscoveredEndpoints(4)
			UpdateBoundControls(12)

			Convey("Then the gauges should hold the last value", func() {
				So(testutil.ToFloat64(globalManager.discoveredEndpoints), ShouldEqual, 4)
				So(testutil.ToFloat64(globalManager.boundControls), ShouldEqual, 12)
			})
		})

		Convey("When recording output and stale drops", func() {
			before := testutil.ToFloat64(globalManager.staleOutputsDropped)
			RecordOutputRender("loading")
			RecordOutputRender("value")
			RecordStaleOutputDropped()

			Convey("Then nothing should panic and drops should be counted", func() {
				So(testutil.ToFloat64(globalManager.staleOutputsDropped)-before, ShouldEqual, 1)
			})
		})

		Convey("When recording HTTP, error and system metrics", func() {
			Convey("Then it should not panic", func() {
				So(func() {
					RecordHTTPRequest("acoes", "POST", "200")
					RecordHTTPRequestDuration("acoes", "POST", "200", 15.0)
					RecordErrorByType("client_error", "medium")
					RecordErrorByEndpoint("acoes", "POST", "not_found")
					UpdateSystemMemoryUsage(1024)
					UpdateSystemGoroutineCount(8)
					RecordSystemGCPauseTime(0.4)
				}, ShouldNotPanic)
			})
		})

		Convey("When asking for the registry", func() {
			Convey("Then the custom registry should be returned", func() {
				So(GetRegistry(), ShouldEqual, customRegistry)
			})
		})
	})
}
