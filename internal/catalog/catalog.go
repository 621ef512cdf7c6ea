// Package catalog lists the rail lines offered on the line-selection form.
package catalog

import "strings"

// EntrySeparator joins the fields of a form value.
const EntrySeparator = "|"

// Entry is one selectable line.
type Entry struct {
	Company string
	Line    string
	URL     string
}

// FormValue encodes the entry as "company|line|url".
func (e Entry) FormValue() string {
	return strings.Join([]string{e.Company, e.Line, e.URL}, EntrySeparator)
}

// Group is a set of entries operated by one company.
type Group struct {
	Company string
	Entries []Entry
}

// Default is the built-in catalog.
var Default = []Group{
	{
		Company: "JR East",
		Entries: []Entry{
			{"JR East", "Yamanote Line", "https://traininfo.jreast.co.jp/train_info/line.aspx?gid=1&lineid=yamanoteline"},
			{"JR East", "Keihin-Tohoku Line", "https://traininfo.jreast.co.jp/train_info/line.aspx?gid=1&lineid=keihintohokuline"},
			{"JR East", "Chuo Line Rapid", "https://traininfo.jreast.co.jp/train_info/line.aspx?gid=1&lineid=chuoline_rapid"},
			{"JR East", "Yokosuka Line", "https://traininfo.jreast.co.jp/train_info/line.aspx?gid=1&lineid=yokosukaline"},
			{"JR East", "Tokaido Line", "https://traininfo.jreast.co.jp/train_info/line.aspx?gid=1&lineid=tokaidoline"},
			{"JR East", "Saikyo Line", "https://traininfo.jreast.co.jp/train_info/line.aspx?gid=1&lineid=saikyoline"},
			{"JR East", "Shonan-Shinjuku Line", "https://traininfo.jreast.co.jp/train_info/line.aspx?gid=1&lineid=shonanshinjukuline"},
		},
	},
	{
		Company: "Tokyu",
		Entries: []Entry{
			{"Tokyu", "Toyoko Line", "https://www.tokyu.co.jp/unten2/unten.html"},
			{"Tokyu", "Den-en-toshi Line", "https://www.tokyu.co.jp/unten2/unten.html"},
		},
	},
	{
		Company: "Keikyu",
		Entries: []Entry{
			{"Keikyu", "Keikyu Main Line", "https://unkou.keikyu.co.jp/"},
		},
	},
}

// All flattens the catalog in display order.
func All(groups []Group) []Entry {
	var out []Entry
	for _, g := range groups {
		out = append(out, g.Entries...)
	}
	return out
}
