// Package kinds describes the element types the pipeline knows about:
// their traits, the list-like props they carry and the schema their props
// are checked against.
package kinds

import "strings"

// Trait is a behavioural flag attached to a Kind.
type Trait uint

const (
	// DataBearing elements render a state array bound wholesale (tables, charts).
	DataBearing Trait = 1 << iota
	// TabGroup elements own a set of TabContent children.
	TabGroup
	// TabContent elements are the panels of a tab group.
	TabContent
	// HeadingLike elements can lend their text as a wrapper title.
	HeadingLike
	// Geo elements carry coordinates (center, markers).
	Geo
	// Container elements only lay out their children.
	Container
	// Series elements describe plotted series (bar, line, area charts).
	Series
)

// FieldAlias maps accepted variant names onto one canonical field.
// Variants are tried in order and include the canonical name itself.
type FieldAlias struct {
	Canonical string
	Variants  []string
}

// ListShape describes a list-like prop and the shape of its items.
type ListShape struct {
	// Props lists the accepted prop names; the first one is canonical.
	Props []string
	// Fields are the canonical item fields and their variants.
	Fields []FieldAlias
	// Bare names the fields a bare string item populates.
	Bare []string
	// Mirror names two fields where a missing one copies the other.
	Mirror [2]string
}

// Kind is one element type known to the registry.
type Kind struct {
	Name    string
	Aliases []string
	Traits  Trait
	Lists   []ListShape
	// PropAliases are top-level prop renames applied during repair.
	PropAliases []FieldAlias
	// Schema names the embedded props schema, empty when unchecked.
	Schema string
}

// Has reports whether the kind carries the trait.
func (k *Kind) Has(t Trait) bool {
	return k != nil && k.Traits&t != 0
}

// Names returns the kind's name followed by its aliases.
func (k *Kind) Names() []string {
	return append([]string{k.Name}, k.Aliases...)
}

var (
	tableColumns = ListShape{
		Props: []string{"columns"},
		Fields: []FieldAlias{
			{Canonical: "key", Variants: []string{"key", "accessorKey", "accessor", "field", "dataKey", "id"}},
			{Canonical: "label", Variants: []string{"label", "header", "title", "name"}},
		},
		Bare:   []string{"key", "label"},
		Mirror: [2]string{"key", "label"},
	}

	options = ListShape{
		Props: []string{"options", "choices"},
		Fields: []FieldAlias{
			{Canonical: "value", Variants: []string{"value", "id", "key"}},
			{Canonical: "label", Variants: []string{"label", "name", "text", "title"}},
		},
		Bare:   []string{"value", "label"},
		Mirror: [2]string{"value", "label"},
	}

	tabs = ListShape{
		Props: []string{"tabs", "items"},
		Fields: []FieldAlias{
			{Canonical: "value", Variants: []string{"value", "id", "key"}},
			{Canonical: "label", Variants: []string{"label", "title", "name", "text"}},
		},
		Bare:   []string{"value", "label"},
		Mirror: [2]string{"value", "label"},
	}

	accordionItems = ListShape{
		Props: []string{"items", "sections"},
		Fields: []FieldAlias{
			{Canonical: "title", Variants: []string{"title", "label", "header", "trigger"}},
			{Canonical: "content", Variants: []string{"content", "body", "text", "description"}},
		},
		Bare: []string{"title"},
	}

	timelineItems = ListShape{
		Props: []string{"items", "events"},
		Fields: []FieldAlias{
			{Canonical: "title", Variants: []string{"title", "label", "name", "event"}},
			{Canonical: "description", Variants: []string{"description", "content", "text", "body"}},
			{Canonical: "date", Variants: []string{"date", "time", "timestamp", "when"}},
		},
		Bare: []string{"title"},
	}

	xKey = FieldAlias{Canonical: "xKey", Variants: []string{"xKey", "xAxisKey", "categoryKey", "indexKey", "index"}}
)

func builtins() []*Kind {
	return []*Kind{
		{Name: "Card", Traits: Container, Schema: "card.json"},
		{Name: "Stack", Aliases: []string{"VStack", "HStack", "Flex", "Box"}, Traits: Container},
		{Name: "Grid", Aliases: []string{"Columns"}, Traits: Container},
		{Name: "Section", Traits: Container, Schema: "card.json"},
		{Name: "Heading", Aliases: []string{"Title", "Subheading"}, Traits: HeadingLike, Schema: "heading.json"},
		{Name: "Text", Aliases: []string{"Paragraph", "Label"}},
		{Name: "Metric", Aliases: []string{"Stat", "KPI"}, Schema: "metric.json"},
		{Name: "Badge"},
		{Name: "Button"},
		{Name: "Input", Aliases: []string{"TextField", "TextInput"}},
		{Name: "Switch", Aliases: []string{"Toggle", "Checkbox"}},
		{Name: "Image"},
		{Name: "Divider", Aliases: []string{"Separator"}},
		{Name: "Table", Aliases: []string{"DataTable"}, Traits: DataBearing, Lists: []ListShape{tableColumns}, Schema: "table.json"},
		{Name: "Select", Aliases: []string{"Dropdown", "MultiSelect", "Combobox"}, Lists: []ListShape{options}, Schema: "select.json"},
		{Name: "RadioGroup", Aliases: []string{"Radio", "SegmentedControl"}, Lists: []ListShape{options}, Schema: "select.json"},
		{Name: "Tabs", Aliases: []string{"TabGroup"}, Traits: TabGroup, Lists: []ListShape{tabs}, Schema: "tabs.json"},
		{Name: "TabContent", Aliases: []string{"TabPanel", "Tab"}, Traits: TabContent, Schema: "tabcontent.json"},
		{Name: "Accordion", Lists: []ListShape{accordionItems}, Schema: "listitems.json"},
		{Name: "Timeline", Lists: []ListShape{timelineItems}, Schema: "listitems.json"},
		{Name: "List", Aliases: []string{"DataList"}, Traits: DataBearing},
		{Name: "BarChart", Traits: DataBearing | Series, PropAliases: []FieldAlias{xKey}, Schema: "chart.json"},
		{Name: "LineChart", Traits: DataBearing | Series, PropAliases: []FieldAlias{xKey}, Schema: "chart.json"},
		{Name: "AreaChart", Traits: DataBearing | Series, PropAliases: []FieldAlias{xKey}, Schema: "chart.json"},
		{
			Name:   "PieChart",
			Traits: DataBearing,
			PropAliases: []FieldAlias{
				{Canonical: "nameKey", Variants: []string{"nameKey", "labelKey", "categoryKey", "xKey"}},
				{Canonical: "valueKey", Variants: []string{"valueKey", "dataKey", "angleKey", "yKey"}},
			},
			Schema: "chart.json",
		},
		{Name: "Map", Aliases: []string{"GeoMap"}, Traits: Geo, Schema: "map.json"},
	}
}

// IsHeadingText reports whether a Text element is styled as a heading.
func IsHeadingText(props map[string]any) bool {
	v, _ := props["variant"].(string)
	v = strings.ToLower(v)
	switch v {
	case "h1", "h2", "h3", "h4", "heading", "title", "subtitle":
		return true
	}
	return false
}
