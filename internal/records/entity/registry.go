// Package entity declares the master-data lists the back office can browse:
// their columns, searchable fields and required fields.
package entity

import (
	"fmt"
	"slices"
	"strings"

	"serveon_backend/internal/grid"
	"serveon_backend/platform/money"
)

// Entity describes one master-data list.
type Entity struct {
	Type        string
	Label       string
	Columns     []grid.Column[grid.Map]
	SearchKeys  []string
	Required    []string
	PhoneFields []string
	// RegionField names the field holding the ISO country code used to
	// parse phone numbers written without a country prefix.
	RegionField string
}

// Definition returns the grid definition for the list.
func (e Entity) Definition() grid.Definition[grid.Map] {
	return grid.Definition[grid.Map]{
		EntityType: e.Type,
		Columns:    e.Columns,
		SearchKeys: e.SearchKeys,
		Access:     grid.MapAccessor,
	}
}

// FieldNames returns the raw fields shown as columns.
func (e Entity) FieldNames() []string {
	out := make([]string, 0, len(e.Columns))
	for _, col := range e.Columns {
		if name, ok := col.Key.Field(); ok {
			out = append(out, name)
		}
	}
	return out
}

// HasField reports whether name is a column field or a search key.
func (e Entity) HasField(name string) bool {
	return slices.Contains(e.FieldNames(), name) || slices.Contains(e.SearchKeys, name)
}

func field(name, header string) grid.Column[grid.Map] {
	return grid.Field[grid.Map](name, header)
}

func derived(header string, fn func(grid.Map) any) grid.Column[grid.Map] {
	return grid.Derived[grid.Map](header, fn)
}

// nested reads m[outer][inner] when m[outer] is an object.
func nested(m grid.Map, outer, inner string) any {
	obj, ok := m[outer].(map[string]any)
	if !ok {
		return nil
	}
	return obj[inner]
}

func activeLabel(m grid.Map) any {
	if active, ok := m["ativo"].(bool); ok && !active {
		return "Inativo"
	}
	return "Ativo"
}

func personType(m grid.Map) any {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, grid.Stringify(m["cpf_cnpj"]))
	switch len(digits) {
	case 11:
		return "PF"
	case 14:
		return "PJ"
	}
	return ""
}

func centsLabel(fieldName string) func(grid.Map) any {
	return func(m grid.Map) any {
		cents, ok := toInt64(m[fieldName])
		if !ok {
			return ""
		}
		return money.FormatBRL(cents)
	}
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		return int64(n), true
	}
	return 0, false
}

func installmentsLabel(m grid.Map) any {
	n, ok := toInt64(m["parcelas"])
	if !ok || n <= 0 {
		return ""
	}
	if entrada, _ := toInt64(m["entrada_percentual"]); entrada > 0 {
		if n == 1 {
			return "À vista"
		}
		return fmt.Sprintf("Entrada + %dx", n-1)
	}
	return fmt.Sprintf("%dx", n)
}

var registry = []Entity{
	{
		Type:  "countries",
		Label: "Países",
		Columns: []grid.Column[grid.Map]{
			field("nome", "Nome"),
			field("sigla", "Sigla"),
			field("ddi", "DDI"),
			field("moeda", "Moeda"),
		},
		SearchKeys: []string{"nome", "sigla", "ddi"},
		Required:   []string{"nome", "sigla"},
	},
	{
		Type:  "states",
		Label: "Estados",
		Columns: []grid.Column[grid.Map]{
			field("nome", "Nome"),
			field("uf", "UF"),
			derived("País", func(m grid.Map) any { return nested(m, "pais", "nome") }),
			field("pais", "País (dados)"),
		},
		SearchKeys: []string{"nome", "uf"},
		Required:   []string{"nome", "uf"},
	},
	{
		Type:  "cities",
		Label: "Cidades",
		Columns: []grid.Column[grid.Map]{
			field("nome", "Nome"),
			field("uf", "UF"),
			field("codigo_ibge", "Código IBGE"),
			field("ddd", "DDD"),
		},
		SearchKeys: []string{"nome", "uf", "codigo_ibge"},
		Required:   []string{"nome", "uf"},
	},
	{
		Type:  "customers",
		Label: "Clientes",
		Columns: []grid.Column[grid.Map]{
			field("nome", "Nome"),
			field("cpf_cnpj", "CPF/CNPJ"),
			derived("Tipo", personType),
			field("email", "E-mail"),
			field("telefone", "Telefone"),
			field("cidade", "Cidade"),
		},
		SearchKeys:  []string{"nome", "cpf_cnpj", "email", "telefone", "cidade"},
		Required:    []string{"nome"},
		PhoneFields: []string{"telefone", "celular"},
		RegionField: "pais_sigla",
	},
	{
		Type:  "suppliers",
		Label: "Fornecedores",
		Columns: []grid.Column[grid.Map]{
			field("razao_social", "Razão Social"),
			field("nome_fantasia", "Nome Fantasia"),
			field("cnpj", "CNPJ"),
			field("email", "E-mail"),
			field("telefone", "Telefone"),
		},
		SearchKeys:  []string{"razao_social", "nome_fantasia", "cnpj", "email"},
		Required:    []string{"razao_social"},
		PhoneFields: []string{"telefone"},
		RegionField: "pais_sigla",
	},
	{
		Type:  "employees",
		Label: "Funcionários",
		Columns: []grid.Column[grid.Map]{
			field("nome", "Nome"),
			field("cargo", "Cargo"),
			field("departamento", "Departamento"),
			field("email", "E-mail"),
			field("telefone", "Telefone"),
			derived("Situação", activeLabel),
		},
		SearchKeys:  []string{"nome", "cpf", "email", "cargo", "departamento"},
		Required:    []string{"nome", "cpf"},
		PhoneFields: []string{"telefone"},
	},
	{
		Type:  "departments",
		Label: "Departamentos",
		Columns: []grid.Column[grid.Map]{
			field("nome", "Nome"),
			field("descricao", "Descrição"),
			derived("Situação", activeLabel),
		},
		SearchKeys: []string{"nome", "descricao"},
		Required:   []string{"nome"},
	},
	{
		Type:  "positions",
		Label: "Cargos",
		Columns: []grid.Column[grid.Map]{
			field("nome", "Nome"),
			field("departamento", "Departamento"),
			derived("Salário Base", centsLabel("salario_base_centavos")),
			field("salario_base_centavos", "Salário Base (centavos)"),
		},
		SearchKeys: []string{"nome", "departamento"},
		Required:   []string{"nome"},
	},
	{
		Type:  "payment-methods",
		Label: "Formas de Pagamento",
		Columns: []grid.Column[grid.Map]{
			field("nome", "Nome"),
			field("tipo", "Tipo"),
			derived("Situação", activeLabel),
		},
		SearchKeys: []string{"nome", "tipo"},
		Required:   []string{"nome"},
	},
	{
		Type:  "payment-terms",
		Label: "Condições de Pagamento",
		Columns: []grid.Column[grid.Map]{
			field("nome", "Nome"),
			derived("Resumo", installmentsLabel),
			field("parcelas", "Parcelas"),
			field("entrada_percentual", "Entrada (%)"),
			field("intervalo_dias", "Intervalo (dias)"),
		},
		SearchKeys: []string{"nome"},
		Required:   []string{"nome", "parcelas"},
	},
	{
		Type:  "brands",
		Label: "Marcas",
		Columns: []grid.Column[grid.Map]{
			field("nome", "Nome"),
			field("descricao", "Descrição"),
		},
		SearchKeys: []string{"nome", "descricao"},
		Required:   []string{"nome"},
	},
	{
		Type:  "categories",
		Label: "Categorias",
		Columns: []grid.Column[grid.Map]{
			field("nome", "Nome"),
			field("descricao", "Descrição"),
		},
		SearchKeys: []string{"nome", "descricao"},
		Required:   []string{"nome"},
	},
	{
		Type:  "unit-measures",
		Label: "Unidades de Medida",
		Columns: []grid.Column[grid.Map]{
			field("nome", "Nome"),
			field("sigla", "Sigla"),
		},
		SearchKeys: []string{"nome", "sigla"},
		Required:   []string{"nome", "sigla"},
	},
}

// Lookup returns the entity registered under entityType.
func Lookup(entityType string) (Entity, bool) {
	for _, e := range registry {
		if e.Type == entityType {
			return e, true
		}
	}
	return Entity{}, false
}

// All returns every registered entity in display order.
func All() []Entity {
	return slices.Clone(registry)
}

// Types returns the registered entity type names.
func Types() []string {
	out := make([]string, len(registry))
	for i, e := range registry {
		out[i] = e.Type
	}
	return out
}
