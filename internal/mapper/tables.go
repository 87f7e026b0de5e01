package mapper

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Tables holds the keyword lookup data driving tag resolution. It is
// injected into the mappers so the lists can be extended per deployment
// without touching engine code.
type Tables struct {
	// ClientTypes maps a user-facing client-type tag to the substrings
	// that identify its store categories.
	ClientTypes map[string][]string `yaml:"client_types"`

	// LocationAliases maps a location tag to extra names tried alongside
	// the tag itself (regional spellings, abbreviations).
	LocationAliases map[string][]string `yaml:"location_aliases"`
}

// DefaultTables returns the built-in keyword lists for the client types the
// dashboard exposes. Category values in the store are Spanish free text, so
// the keywords are matched accent-insensitively.
func DefaultTables() *Tables {
	return &Tables{
		ClientTypes: map[string][]string{
			"solar":             {"solar", "fotovolta", "placas"},
			"energia":           {"energia", "renovable", "eolica"},
			"electrico":         {"electric", "instalacion", "iluminacion"},
			"industrial":        {"industria", "fabrica", "manufactur", "taller"},
			"construccion":      {"construccion", "obra", "reforma", "edificacion"},
			"comercial":         {"comercio", "tienda", "venta", "distribu"},
			"residencial":       {"residencial", "vivienda", "comunidad", "hogar"},
			"hosteleria":        {"hotel", "hostal", "alojamiento", "turismo"},
			"restauracion":      {"restaurante", "bar", "cafeteria", "catering"},
			"retail":            {"retail", "supermercado", "moda", "franquicia"},
			"agricola":          {"agricola", "agricultura", "ganader", "cultivo"},
			"logistica":         {"logistica", "transporte", "almacen", "mensajeria"},
			"sanitario":         {"clinica", "sanitario", "salud", "farmacia", "dental"},
			"educacion":         {"educacion", "colegio", "academia", "formacion"},
			"tecnologia":        {"tecnologia", "informatica", "software", "digital"},
			"automocion":        {"automocion", "taller mecanico", "vehiculo", "concesionario"},
			"inmobiliario":      {"inmobiliaria", "inmueble", "promotora"},
			"telecomunicacion":  {"telecomunicacion", "telefonia", "fibra"},
			"consultoria":       {"consultoria", "asesoria", "gestoria", "abogado"},
			"climatizacion":     {"climatizacion", "aire acondicionado", "calefaccion", "frio"},
		},
		LocationAliases: map[string][]string{
			"cataluna":  {"barcelona", "girona", "lleida", "tarragona"},
			"andalucia": {"sevilla", "malaga", "granada", "cadiz", "cordoba", "almeria", "jaen", "huelva"},
			"euskadi":   {"pais vasco", "vizcaya", "guipuzcoa", "alava", "bilbao"},
			"levante":   {"valencia", "alicante", "castellon", "murcia"},
			"galicia":   {"coruna", "pontevedra", "lugo", "ourense"},
			"canarias":  {"las palmas", "tenerife"},
			"baleares":  {"mallorca", "menorca", "ibiza"},
		},
	}
}

// LoadTables reads keyword tables from a YAML file and merges them over the
// defaults. File entries replace the default list for the same tag.
func LoadTables(path string) (*Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "mapper: read tables %s", path)
	}

	var file Tables
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, eris.Wrap(err, "mapper: parse tables")
	}

	tables := DefaultTables()
	for tag, keywords := range file.ClientTypes {
		tables.ClientTypes[Fold(tag)] = keywords
	}
	for tag, aliases := range file.LocationAliases {
		tables.LocationAliases[Fold(tag)] = aliases
	}
	return tables, nil
}
