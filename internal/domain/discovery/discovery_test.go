package discovery_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/okian/painel/internal/domain/discovery"
	. "github.com/smartystreets/goconvey/convey"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("boom") }

func TestDiscover(t *testing.T) {
	Convey("Given an upstream root page", t, func() {
		Convey("When it links the same relative path twice and one absolute URL", func() {
			html := `<html><body>
				<a href="/a">A</a>
				<a href="http://x">X</a>
				<a href="/a">A again</a>
			</body></html>`

			eps, err := discovery.Discover(html)

			Convey("Then only the relative path should remain, once", func() {
				So(err, ShouldBeNil)
				So(discovery.Paths(eps), ShouldResemble, []string{"/a"})
			})
		})

		Convey("When it lists several endpoints", func() {
			html := `<ul>
				<li><a href="/empresas">empresas</a></li>
				<li><a href="https://github.com/x/y">repo</a></li>
				<li><a href="socios">socios</a></li>
				<li><a>no href</a></li>
				<li><a href="">empty</a></li>
				<li><a href="/empresas">dup</a></li>
				<li><a href="/ramos?ativo=true">ramos</a></li>
			</ul>`

			eps, err := discovery.Discover(html)

			Convey("Then they should come back in first-seen order", func() {
				So(err, ShouldBeNil)
				So(discovery.Paths(eps), ShouldResemble, []string{"/empresas", "socios", "/ramos?ativo=true"})
			})
		})

		Convey("When the page has no anchors", func() {
			eps, err := discovery.Discover(`<html><body><p>nada aqui</p></body></html>`)

			Convey("Then the list should be empty, not an error", func() {
				So(err, ShouldBeNil)
				So(eps, ShouldNotBeNil)
				So(eps, ShouldBeEmpty)
			})
		})

		Convey("When the body is not HTML at all", func() {
			eps, err := discovery.Discover(`{"empresas": "/empresas"}`)

			Convey("Then the lenient parser should find nothing", func() {
				So(err, ShouldBeNil)
				So(eps, ShouldBeEmpty)
			})
		})

		Convey("When the stream cannot be read", func() {
			_, err := discovery.DiscoverReader(failingReader{})

			Convey("Then the read error should surface", func() {
				So(err, ShouldNotBeNil)
				So(strings.Contains(err.Error(), "boom"), ShouldBeTrue)
			})
		})
	})
}
