// Package fixture generates a fake upstream of companies and serves it the
// way the real API does: an HTML root page with links and JSON collections.
package fixture

import "time"

// Config holds generator settings.
type Config struct {
	Count   int           // Number of companies to generate
	Workers int           // Concurrent generator workers
	Months  int           // Registration dates spread over this many past months
	Now     time.Time     // Reference time for registration dates
}

// Empresa is one generated company. Optional fields are left out of the JSON
// when empty, so consumers see the same gaps real data has.
type Empresa struct {
	ID               int      `json:"id"`
	Nome             string   `json:"nome"`
	CPFCNPJ          *string  `json:"cpfCnpj,omitempty"`
	RegimeTributario string   `json:"regimeTributario,omitempty"`
	Status           string   `json:"status"`
	DataRegistro     string   `json:"dataRegistro"`
	Socios           []string `json:"socios,omitempty"`
	RamoAtividade    string   `json:"ramoAtividade,omitempty"`
	Codigo           string   `json:"codigo"`
}

// Socio summarizes one partner across the generated companies.
type Socio struct {
	Nome     string `json:"nome"`
	Empresas []int  `json:"empresas"`
}
