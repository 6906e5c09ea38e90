package wrf

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/batchatco/go-native-netcdf/netcdf"
	"github.com/batchatco/go-native-netcdf/netcdf/api"
)

// StandardDescriptions holds reference descriptions for well-known variables.
var StandardDescriptions = map[string]string{
	"SWDOWN": "Downward shortwave radiation flux at ground surface",
}

// VariableInfo describes one variable of a NetCDF file.
type VariableInfo struct {
	Name        string
	Dimensions  []string
	Shape       []int64
	Units       string
	Description string
	// Standard is empty unless the variable is in StandardDescriptions.
	Standard string
}

// Inspect lists the variables of path whose name or description attribute
// contains any keyword, case-insensitively, sorted by name. No keywords
// selects every variable.
func Inspect(path string, keywords []string) ([]VariableInfo, error) {
	nc, err := netcdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer nc.Close()

	var out []VariableInfo
	for _, name := range nc.ListVariables() {
		vg, err := nc.GetVarGetter(name)
		if err != nil {
			return nil, fmt.Errorf("variable %s: %w", name, err)
		}
		desc := stringAttr(vg.Attributes(), "description", "")
		if !matches(name, desc, keywords) {
			continue
		}
		if desc == "" {
			desc = "No description available"
		}
		v, err := vg.Values()
		if err != nil {
			return nil, fmt.Errorf("variable %s values: %w", name, err)
		}
		out = append(out, VariableInfo{
			Name:        name,
			Dimensions:  vg.Dimensions(),
			Shape:       shapeOf(v),
			Units:       stringAttr(vg.Attributes(), "units", "No units specified"),
			Description: desc,
			Standard:    StandardDescriptions[name],
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func matches(name, desc string, keywords []string) bool {
	if len(keywords) == 0 {
		return true
	}
	name = strings.ToLower(name)
	desc = strings.ToLower(desc)
	for _, k := range keywords {
		k = strings.ToLower(k)
		if strings.Contains(name, k) || strings.Contains(desc, k) {
			return true
		}
	}
	return false
}

// shapeOf walks the leading element of each nesting level of a slice value.
func shapeOf(v any) []int64 {
	var shape []int64
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Slice {
		shape = append(shape, int64(rv.Len()))
		if rv.Len() == 0 {
			break
		}
		rv = rv.Index(0)
	}
	return shape
}

func stringAttr(attrs api.AttributeMap, key, fallback string) string {
	if attrs == nil {
		return fallback
	}
	v, ok := attrs.Get(key)
	if !ok {
		return fallback
	}
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	return fallback
}
