// Package stations holds the static seismometer station name table. The
// real KMA station roster is data, not code, and isn't available here; this
// placeholder table has the right shape — a stable, index-addressable name
// per station, at least 99 entries — and is clearly labeled as a stand-in.
package stations

// Names is indexed by a station's stable table position (Station.Idx).
var Names = [...]string{
	"KMA-001",
	"KMA-002",
	"KMA-003",
	"KMA-004",
	"KMA-005",
	"KMA-006",
	"KMA-007",
	"KMA-008",
	"KMA-009",
	"KMA-010",
	"KMA-011",
	"KMA-012",
	"KMA-013",
	"KMA-014",
	"KMA-015",
	"KMA-016",
	"KMA-017",
	"KMA-018",
	"KMA-019",
	"KMA-020",
	"KMA-021",
	"KMA-022",
	"KMA-023",
	"KMA-024",
	"KMA-025",
	"KMA-026",
	"KMA-027",
	"KMA-028",
	"KMA-029",
	"KMA-030",
	"KMA-031",
	"KMA-032",
	"KMA-033",
	"KMA-034",
	"KMA-035",
	"KMA-036",
	"KMA-037",
	"KMA-038",
	"KMA-039",
	"KMA-040",
	"KMA-041",
	"KMA-042",
	"KMA-043",
	"KMA-044",
	"KMA-045",
	"KMA-046",
	"KMA-047",
	"KMA-048",
	"KMA-049",
	"KMA-050",
	"KMA-051",
	"KMA-052",
	"KMA-053",
	"KMA-054",
	"KMA-055",
	"KMA-056",
	"KMA-057",
	"KMA-058",
	"KMA-059",
	"KMA-060",
	"KMA-061",
	"KMA-062",
	"KMA-063",
	"KMA-064",
	"KMA-065",
	"KMA-066",
	"KMA-067",
	"KMA-068",
	"KMA-069",
	"KMA-070",
	"KMA-071",
	"KMA-072",
	"KMA-073",
	"KMA-074",
	"KMA-075",
	"KMA-076",
	"KMA-077",
	"KMA-078",
	"KMA-079",
	"KMA-080",
	"KMA-081",
	"KMA-082",
	"KMA-083",
	"KMA-084",
	"KMA-085",
	"KMA-086",
	"KMA-087",
	"KMA-088",
	"KMA-089",
	"KMA-090",
	"KMA-091",
	"KMA-092",
	"KMA-093",
	"KMA-094",
	"KMA-095",
	"KMA-096",
	"KMA-097",
	"KMA-098",
	"KMA-099",
	"KMA-100",
	"KMA-101",
	"KMA-102",
	"KMA-103",
	"KMA-104",
	"KMA-105",
	"KMA-106",
	"KMA-107",
	"KMA-108",
	"KMA-109",
	"KMA-110",
	"KMA-111",
	"KMA-112",
	"KMA-113",
	"KMA-114",
	"KMA-115",
	"KMA-116",
	"KMA-117",
	"KMA-118",
	"KMA-119",
	"KMA-120",
}

// Name returns the station name at idx, or "" if idx is outside the table
// (e.g. a live network larger than this placeholder roster).
func Name(idx int) string {
	if idx < 0 || idx >= len(Names) {
		return ""
	}
	return Names[idx]
}
