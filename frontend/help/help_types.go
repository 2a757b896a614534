package help

import (
	"strconv"
	"strings"

	"labdesk/frontend/shared/rowactions"
	"labdesk/infrastructure/labapi"
	"labdesk/infrastructure/rbac"
)

// LegendRow explains what a status code shows on a screen.
type LegendRow struct {
	Status  string
	Actions string
}

type PageData struct {
	Role       string
	Home       string
	AllotRows  []LegendRow
	QueueRows  []LegendRow
	Codes      []string
	IsAdmin    bool
	IsReviewer bool
}

func describe(set rowactions.Set) string {
	parts := set.Labels()
	if set.Note != "" && len(parts) == 0 {
		return set.Note
	}
	return strings.Join(parts, ", ")
}

// AllotLegend runs every allot status through the live mapping so the
// legend cannot drift from the buttons.
func AllotLegend() []LegendRow {
	var out []LegendRow
	for status := rowactions.TRFAwaitingAllotment; status <= rowactions.TRFFinalReport; status++ {
		row := labapi.SampleRow{ID: "1", TRFStatus: labapi.FlexInt(status), PackageType: 1}
		label := "trfstatus " + strconv.Itoa(status)
		if status == rowactions.TRFInTesting {
			out = append(out, LegendRow{Status: label + " (in-lab package)", Actions: describe(rowactions.TRFActions(row))})
			row.PackageType = rowactions.PackageTypeExternal
			out = append(out, LegendRow{Status: label + " (external package)", Actions: describe(rowactions.TRFActions(row))})
			continue
		}
		out = append(out, LegendRow{Status: label, Actions: describe(rowactions.TRFActions(row))})
	}
	out = append(out, LegendRow{Status: "any other", Actions: describe(rowactions.TRFActions(labapi.SampleRow{ID: "1"}))})
	return out
}

func QueueLegend() []LegendRow {
	return []LegendRow{
		{Status: "hodstatus below 5, no chemist", Actions: describe(rowactions.HODActions(labapi.HODRequest{ID: "1", HODStatus: 4}))},
		{Status: "hodstatus below 5, chemist assigned", Actions: describe(rowactions.HODActions(labapi.HODRequest{ID: "1", HODStatus: 4, Chemist: "7"}))},
		{Status: "hodstatus 5, external package", Actions: describe(rowactions.HODActions(labapi.HODRequest{ID: "1", HODStatus: 5, PackageType: rowactions.PackageTypeExternal}))},
		{Status: "hodstatus 5, in-lab package", Actions: describe(rowactions.HODActions(labapi.HODRequest{ID: "1", HODStatus: 5, PackageType: 1}))},
	}
}

func BuildPageData(role string, codes []string) PageData {
	return PageData{
		Role:       role,
		Codes:      codes,
		Home:       rbac.HomePath(role),
		AllotRows:  AllotLegend(),
		QueueRows:  QueueLegend(),
		IsAdmin:    role == rbac.RoleAdmin,
		IsReviewer: role == rbac.RoleReviewer || role == rbac.RoleAdmin,
	}
}
