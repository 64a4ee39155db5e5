package empresa_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/okian/painel/internal/domain/empresa"
	"github.com/okian/painel/internal/domain/monthlabel"
	. "github.com/smartystreets/goconvey/convey"
)

func decode(body string) []empresa.Record {
	records, err := empresa.Decode([]byte(body))
	if err != nil {
		panic(err)
	}
	return records
}

func render(v any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		panic(err)
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

func TestDecode(t *testing.T) {
	Convey("Given a collection body", t, func() {
		Convey("When it is an array of objects", func() {
			records, err := empresa.Decode([]byte(`[{"z":1,"a":"<b>"},{"id":7}]`))

			Convey("Then each record should keep its original bytes", func() {
				So(err, ShouldBeNil)
				So(records, ShouldHaveLength, 2)
				So(render(records[0]), ShouldEqual, `{"z":1,"a":"<b>"}`)
			})
		})

		Convey("When it is an empty array", func() {
			records, err := empresa.Decode([]byte(` [] `))

			Convey("Then the list should be empty and non-nil", func() {
				So(err, ShouldBeNil)
				So(records, ShouldNotBeNil)
				So(records, ShouldBeEmpty)
			})
		})

		Convey("When it is an object", func() {
			_, err := empresa.Decode([]byte(`{"empresas":[]}`))

			Convey("Then it should fail with ErrNotArray", func() {
				So(errors.Is(err, empresa.ErrNotArray), ShouldBeTrue)
			})
		})

		Convey("When an item is not an object", func() {
			records, err := empresa.Decode([]byte(`[null, 3, {"status":"ativa"}]`))

			Convey("Then it should behave as a record without fields", func() {
				So(err, ShouldBeNil)
				So(records, ShouldHaveLength, 3)
				_, ok := records[0].Get(empresa.FieldStatus)
				So(ok, ShouldBeFalse)
				So(render(records[1]), ShouldEqual, `3`)
			})
		})
	})
}

func TestGroupByField(t *testing.T) {
	Convey("Given records with and without a tax regime", t, func() {
		records := decode(`[{"regimeTributario":"Simples"},{}]`)

		Convey("When grouping by regime", func() {
			groups := empresa.GroupByField(records, empresa.FieldRegime)

			Convey("Then the missing value should land in the not-informed bucket", func() {
				So(groups.Keys(), ShouldResemble, []string{"Simples", "Não informado"})
				So(render(groups), ShouldEqual, `{"Simples":[{"regimeTributario":"Simples"}],"Não informado":[{}]}`)
			})
		})

		Convey("When keys appear in a non-alphabetical order", func() {
			records := decode(`[
				{"ramoAtividade":"Varejo","id":1},
				{"ramoAtividade":"Agro","id":2},
				{"ramoAtividade":"","id":3},
				{"ramoAtividade":"Varejo","id":4},
				{"ramoAtividade":null,"id":5},
				{"ramoAtividade":10,"id":6}
			]`)
			groups := empresa.GroupByField(records, empresa.FieldActivity)

			Convey("Then buckets should follow first-seen order", func() {
				So(groups.Keys(), ShouldResemble, []string{"Varejo", "Agro", "Não informado", "10"})
				varejo, _ := groups.Get("Varejo")
				So(render(varejo), ShouldEqual, `[{"ramoAtividade":"Varejo","id":1},{"ramoAtividade":"Varejo","id":4}]`)
				missing, _ := groups.Get(empresa.NotInformed)
				So(missing, ShouldHaveLength, 2)
			})
		})

		Convey("When the collection is empty", func() {
			groups := empresa.GroupByField(nil, empresa.FieldRegime)

			Convey("Then the result should be an empty object", func() {
				So(groups.Len(), ShouldEqual, 0)
				So(render(groups), ShouldEqual, `{}`)
			})
		})

		Convey("When the source records are inspected afterwards", func() {
			before := render(records)
			_ = empresa.GroupByField(records, empresa.FieldRegime)

			Convey("Then they should be untouched", func() {
				So(render(records), ShouldEqual, before)
			})
		})
	})
}

func TestPresenceFilters(t *testing.T) {
	Convey("Given one record with a tax id and one without", t, func() {
		records := decode(`[{"cpfCnpj":"123"},{}]`)

		Convey("When filtering for presence", func() {
			Convey("Then only the first record should remain", func() {
				So(render(empresa.FilterPresent(records, empresa.FieldTaxID)), ShouldEqual, `[{"cpfCnpj":"123"}]`)
			})
		})

		Convey("When filtering for absence", func() {
			Convey("Then only the second record should remain", func() {
				So(render(empresa.FilterAbsent(records, empresa.FieldTaxID)), ShouldEqual, `[{}]`)
			})
		})
	})

	Convey("Given falsy tax ids", t, func() {
		records := decode(`[{"cpfCnpj":""},{"cpfCnpj":null},{"cpfCnpj":0},{"cpfCnpj":false},{"cpfCnpj":[]}]`)

		Convey("When filtering for presence", func() {
			out := empresa.FilterPresent(records, empresa.FieldTaxID)

			Convey("Then only the empty array should count as present", func() {
				So(render(out), ShouldEqual, `[{"cpfCnpj":[]}]`)
			})
		})

		Convey("When nothing matches", func() {
			out := empresa.FilterPresent(decode(`[{}]`), empresa.FieldTaxID)

			Convey("Then an empty list should render as []", func() {
				So(render(out), ShouldEqual, `[]`)
			})
		})
	})
}

func TestFilterStatus(t *testing.T) {
	Convey("Given an active and an inactive record", t, func() {
		records := decode(`[{"status":"ativa"},{"status":"inativa"},{"status":"Ativa"},{}]`)

		Convey("When filtering for ativa", func() {
			Convey("Then exactly the first record should remain", func() {
				So(render(empresa.FilterStatus(records, empresa.StatusActive)), ShouldEqual, `[{"status":"ativa"}]`)
			})
		})

		Convey("When filtering for inativa", func() {
			Convey("Then exactly the second record should remain", func() {
				So(render(empresa.FilterStatus(records, empresa.StatusInactive)), ShouldEqual, `[{"status":"inativa"}]`)
			})
		})
	})
}

func TestCountActiveByMonth(t *testing.T) {
	Convey("Given a pt-BR month formatter", t, func() {
		f, err := monthlabel.New("pt-BR", monthlabel.StyleShortMonthYear, time.UTC)
		So(err, ShouldBeNil)

		Convey("When two active records share a month", func() {
			records := decode(`[
				{"status":"ativa","dataRegistro":"2024-01-05"},
				{"status":"ativa","dataRegistro":"2024-01-28T10:00:00Z"}
			]`)
			counts := empresa.CountActiveByMonth(records, f)

			Convey("Then there should be a single bucket with count 2", func() {
				So(counts.Len(), ShouldEqual, 1)
				n, _ := counts.Get("jan. de 2024")
				So(n, ShouldEqual, 2)
				So(render(counts), ShouldEqual, `{"jan. de 2024":2}`)
			})
		})

		Convey("When the collection mixes statuses and months", func() {
			records := decode(`[
				{"status":"ativa","dataRegistro":"2023-11-01"},
				{"status":"inativa","dataRegistro":"2023-11-02"},
				{"status":"ativa","dataRegistro":"2023-02-10"},
				{"status":"ativa"},
				{"status":"ativa","dataRegistro":"amanhã"},
				{"status":"ativa","dataRegistro":"2023-11-30"}
			]`)
			counts := empresa.CountActiveByMonth(records, f)

			Convey("Then inactive records should be ignored and labels kept in first-seen order", func() {
				So(counts.Keys(), ShouldResemble, []string{"nov. de 2023", "fev. de 2023", monthlabel.InvalidDate})
				So(render(counts), ShouldEqual, `{"nov. de 2023":2,"fev. de 2023":1,"Invalid Date":2}`)
			})
		})
	})
}

func TestCompaniesByPartner(t *testing.T) {
	Convey("Given companies with partner lists", t, func() {
		records := decode(`[
			{"id":1,"socios":["Ana","Bruno"]},
			{"id":"b-2","socios":["Carla"]},
			{"socios":["Ana"]},
			{"id":4,"socios":"Ana"},
			{"id":5}
		]`)

		Convey("When searching for a partner", func() {
			res := empresa.CompaniesByPartner(records, "Ana")

			Convey("Then ids should be listed in order, null for missing ids", func() {
				So(render(res), ShouldEqual, `{"socio":"Ana","empresas":[1,null]}`)
			})
		})

		Convey("When nobody matches", func() {
			res := empresa.CompaniesByPartner(records, "Zeca")

			Convey("Then the id list should be empty", func() {
				So(render(res), ShouldEqual, `{"socio":"Zeca","empresas":[]}`)
			})
		})
	})

	Convey("Given a partner name typed by the user", t, func() {
		Convey("When it is blank", func() {
			_, inputErr := empresa.NormalizePartner("   ")

			Convey("Then an error-shaped value should be returned", func() {
				So(inputErr, ShouldNotBeNil)
				So(render(inputErr), ShouldEqual, `{"error":"Digite o nome do sócio"}`)
			})
		})

		Convey("When it has surrounding spaces", func() {
			name, inputErr := empresa.NormalizePartner("  Ana ")

			Convey("Then it should be trimmed", func() {
				So(inputErr, ShouldBeNil)
				So(name, ShouldEqual, "Ana")
			})
		})
	})
}

func TestNewRecord(t *testing.T) {
	Convey("Given a record built from a field map", t, func() {
		rec := empresa.NewRecord(map[string]any{"status": "ativa", "cpfCnpj": "1"})

		Convey("Then accessors should work on it", func() {
			s, ok := rec.String(empresa.FieldStatus)
			So(ok, ShouldBeTrue)
			So(s, ShouldEqual, "ativa")
			So(rec.Truthy(empresa.FieldTaxID), ShouldBeTrue)
			So(rec.Truthy(empresa.FieldRegime), ShouldBeFalse)
		})
	})
}
