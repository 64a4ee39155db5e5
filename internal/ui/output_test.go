package ui

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestRender(t *testing.T) {
	Convey("Given values to render", t, func() {
		Convey("When rendering an object", func() {
			text, err := Render(map[string]any{"a": []int{1, 2}, "b": "<x>"})

			Convey("Then it is indented by two spaces and not HTML escaped", func() {
				So(err, ShouldBeNil)
				So(text, ShouldEqual, "{\n  \"a\": [\n    1,\n    2\n  ],\n  \"b\": \"<x>\"\n}")
			})
		})

		Convey("When rendering empty containers", func() {
			arr, _ := Render([]int{})
			obj, _ := Render(struct{}{})

			Convey("Then they stay on one line", func() {
				So(arr, ShouldEqual, "[]")
				So(obj, ShouldEqual, "{}")
			})
		})

		Convey("When rendering something JSON cannot hold", func() {
			_, err := Render(make(chan int))

			Convey("Then an error is returned", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}

func TestOutput(t *testing.T) {
	Convey("Given an output area", t, func() {
		out := NewOutput()

		Convey("When an action starts", func() {
			ticket := out.Loading()

			Convey("Then the loading text is shown", func() {
				So(out.Text(), ShouldEqual, LoadingText)
				So(ticket, ShouldEqual, Ticket(1))
				So(out.Generation(), ShouldEqual, Ticket(1))
			})

			Convey("Then a result replaces it", func() {
				text, applied := out.Show(ticket, []string{"x"})
				So(applied, ShouldBeTrue)
				So(text, ShouldEqual, "[\n  \"x\"\n]")
				So(out.Text(), ShouldEqual, text)
				So(out.Snapshot(), ShouldResemble, State{Text: text, Generation: ticket})
			})

			Convey("Then a failure is prefixed", func() {
				text, applied := out.Fail(ticket, errors.New("Failed to fetch"))
				So(applied, ShouldBeTrue)
				So(text, ShouldEqual, "Erro: Failed to fetch")
				So(out.Text(), ShouldEqual, "Erro: Failed to fetch")
			})

			Convey("Then an unrenderable value is shown as an error", func() {
				text, _ := out.Show(ticket, make(chan int))
				So(text, ShouldStartWith, ErrorPrefix)
			})
		})

		Convey("When two actions overlap without the stale guard", func() {
			first := out.Loading()
			second := out.Loading()
			out.Show(second, "new")
			_, applied := out.Show(first, "old")

			Convey("Then the last one to complete wins", func() {
				So(applied, ShouldBeTrue)
				So(out.Text(), ShouldEqual, `"old"`)
			})
		})
	})

	Convey("Given an output area with the stale guard", t, func() {
		out := NewOutput(WithStaleGuard(true))
		So(out.GuardsStale(), ShouldBeTrue)

		Convey("When an older action completes after a newer one started", func() {
			first := out.Loading()
			second := out.Loading()
			out.Show(second, "new")
			text, applied := out.Show(first, "old")

			Convey("Then the older result is kept out of the area", func() {
				So(applied, ShouldBeFalse)
				So(text, ShouldEqual, `"old"`)
				So(out.Text(), ShouldEqual, `"new"`)
			})
		})

		Convey("When an older action completes before the newer one", func() {
			first := out.Loading()
			_ = out.Loading()
			_, applied := out.Fail(first, errors.New("late"))

			Convey("Then the loading text of the newer action stays", func() {
				So(applied, ShouldBeFalse)
				So(out.Text(), ShouldEqual, LoadingText)
			})
		})
	})
}
