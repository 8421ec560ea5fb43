package importer

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Internal attribute names an export entry is mapped onto.
const (
	attrType       = "type"
	attrValue      = "value"
	attrStart      = "start"
	attrEnd        = "end"
	attrSourceName = "source_name"
	attrUnit       = "unit"
)

// fieldMapping maps one internal attribute to the external names it may
// appear under, in lookup order, plus the value used when none is present.
type fieldMapping struct {
	attr     string
	external []string
	fallback string
}

// recordFields is the mapping table for Apple Health <Record> elements. Older
// exports and third-party converters use snake_case or short names.
var recordFields = []fieldMapping{
	{attr: attrType, external: []string{"type"}},
	{attr: attrValue, external: []string{"value"}},
	{attr: attrStart, external: []string{"startDate", "start_date", "start"}},
	{attr: attrEnd, external: []string{"endDate", "end_date", "end"}},
	{attr: attrSourceName, external: []string{"sourceName", "source_name", "source"}, fallback: "Unknown"},
	{attr: attrUnit, external: []string{"unit"}, fallback: unitPerMinute},
}

// entry is one raw export element after field mapping.
type entry struct {
	index int
	attrs map[string]string
}

func (e entry) get(attr string) string {
	return e.attrs[attr]
}

// mapEntry applies the mapping table to the attributes of an element.
// Unknown attributes are ignored.
func mapEntry(index int, raw []xml.Attr) entry {
	byName := make(map[string]string, len(raw))
	for _, a := range raw {
		byName[a.Name.Local] = strings.TrimSpace(a.Value)
	}

	e := entry{index: index, attrs: make(map[string]string, len(recordFields))}
	for _, f := range recordFields {
		e.attrs[f.attr] = f.fallback
		for _, name := range f.external {
			if v, ok := byName[name]; ok && v != "" {
				e.attrs[f.attr] = v
				break
			}
		}
	}
	return e
}

// timestampLayouts are tried in order. Zone-less layouts are read as UTC.
var timestampLayouts = []string{
	"2006-01-02 15:04:05 -0700",
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

func parseTimestamp(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("missing timestamp")
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// span reads the start and end attributes of an entry.
func (e entry) span() (time.Time, time.Time, error) {
	start, err := parseTimestamp(e.get(attrStart))
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("start: %w", err)
	}
	end, err := parseTimestamp(e.get(attrEnd))
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("end: %w", err)
	}
	return start, end, nil
}

const (
	unitPerMinute = "count/min"
	unitPerSecond = "count/s"
)

// bpm reads the value of a heart-rate entry in beats per minute.
func (e entry) bpm() (float64, error) {
	v, err := strconv.ParseFloat(e.get(attrValue), 64)
	if err != nil {
		return 0, fmt.Errorf("value: %w", err)
	}
	if e.get(attrUnit) == unitPerSecond {
		v *= 60
	}
	if v <= 0 {
		return 0, fmt.Errorf("value: must be positive, got %v", v)
	}
	return v, nil
}

// zoneName picks an IANA name for the offset of t. Fractional-hour offsets
// have no Etc/ zone and fall back to UTC.
func zoneName(t time.Time) string {
	_, offset := t.Zone()
	if offset == 0 || offset%3600 != 0 {
		return "UTC"
	}
	// Etc/GMT zones use inverted signs: Etc/GMT+7 is UTC-07:00.
	return fmt.Sprintf("Etc/GMT%+d", -offset/3600)
}
