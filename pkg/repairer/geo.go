package repairer

import (
	"github.com/agentstation/uispec/pkg/kinds"
	"github.com/agentstation/uispec/pkg/spec"
)

var (
	latAlias      = kinds.FieldAlias{Canonical: "lat", Variants: []string{"lat", "latitude"}}
	lngAlias      = kinds.FieldAlias{Canonical: "lng", Variants: []string{"lng", "longitude", "lon", "long"}}
	mapStyleAlias = kinds.FieldAlias{Canonical: "mapStyle", Variants: []string{"mapStyle", "tileStyle", "basemap"}}
)

// normalizeGeo canonicalizes coordinates and map style props of Geo kinds.
func (r *repairer) normalizeGeo(t *spec.Tree, report *spec.Report) {
	for _, id := range t.IDs() {
		el := t.Elements[id]
		if !r.registry.Has(el.Type, kinds.Geo) {
			continue
		}
		props := el.Props

		switch center := props["center"].(type) {
		case map[string]any:
			if _, isBinding := spec.AsBinding(center); !isBinding && normalizeLatLng(center) {
				report.Add(RuleGeo, id, "normalized center coordinates")
			}
		case []any:
			if len(center) == 2 && isNumber(center[0]) && isNumber(center[1]) {
				props["center"] = map[string]any{"lat": center[0], "lng": center[1]}
				report.Add(RuleGeo, id, "converted center pair to lat/lng")
			}
		case nil:
			lat, latKey, hasLat := firstPresent(props, latAlias.Variants)
			lng, lngKey, hasLng := firstPresent(props, lngAlias.Variants)
			if hasLat && hasLng {
				props["center"] = map[string]any{"lat": lat, "lng": lng}
				delete(props, latKey)
				delete(props, lngKey)
				report.Add(RuleGeo, id, "folded top-level coordinates into center")
			}
		}

		if markers, ok := props["markers"].([]any); ok {
			changed := 0
			for _, m := range markers {
				if obj, ok := spec.AsObject(m); ok && normalizeLatLng(obj) {
					changed++
				}
			}
			if changed > 0 {
				report.Addf(RuleGeo, id, "normalized coordinates of %d markers", changed)
			}
		}

		if style, ok := props["style"].(string); ok {
			delete(props, "style")
			if _, exists := props["mapStyle"]; !exists {
				props["mapStyle"] = style
			}
			report.Add(RuleGeo, id, `moved string "style" to "mapStyle"`)
		}
		if from, ok := renameField(props, mapStyleAlias); ok {
			report.Addf(RuleGeo, id, "renamed %q to %q", from, "mapStyle")
		}
	}
}

// normalizeLatLng renames coordinate aliases in place and reports whether
// anything changed.
func normalizeLatLng(obj map[string]any) bool {
	_, a := renameField(obj, latAlias)
	_, b := renameField(obj, lngAlias)
	return a || b
}

func firstPresent(m map[string]any, keys []string) (any, string, bool) {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v, k, true
		}
	}
	return nil, "", false
}

func isNumber(v any) bool {
	switch v.(type) {
	case float64, float32, int, int64:
		return true
	}
	return false
}
