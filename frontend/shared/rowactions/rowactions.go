// Package rowactions maps backend status codes to the buttons a row shows.
// The tables are display rules only; the backend decides whether a
// transition is legal when the button is used.
package rowactions

import (
	"fmt"
	"net/url"
	"strings"

	"labdesk/infrastructure/labapi"
)

// Action is one rendered control. POST actions render as a small form.
type Action struct {
	Label   string
	Href    string
	Method  string
	Confirm string
}

func (a Action) IsPost() bool { return a.Method == "POST" }

// Set is the action cell of a row. Note is shown when there is nothing to
// click, or next to the actions as a status hint.
type Set struct {
	Actions []Action
	Note    string
}

func (s Set) Labels() []string {
	out := make([]string, 0, len(s.Actions))
	for _, a := range s.Actions {
		out = append(out, a.Label)
	}
	return out
}

func link(label, href string) Action {
	return Action{Label: label, Href: href, Method: "GET"}
}

func post(label, href, confirm string) Action {
	return Action{Label: label, Href: href, Method: "POST", Confirm: confirm}
}

func esc(id string) string { return url.PathEscape(strings.TrimSpace(id)) }

// TRF status codes on the allot-sample list.
const (
	TRFAwaitingAllotment = 3
	TRFAwaitingChemist   = 4
	TRFInTesting         = 5
	TRFDraftReport       = 6
	TRFReviewReport      = 7
	TRFGenerateReport    = 8
	TRFFinalReport       = 9
)

// PackageTypeExternal marks products whose report is uploaded rather than
// produced from in-lab test events.
const PackageTypeExternal = 0

// TRFActions maps an allot-sample row to its actions.
func TRFActions(row labapi.SampleRow) Set {
	id := esc(row.ID.String())
	switch row.TRFStatus.Int() {
	case TRFAwaitingAllotment:
		return Set{Actions: []Action{
			link("Allot Quantity", "/lab/allot/"+id),
			post("Remove Item", "/lab/allot/"+id+"/remove", "Remove this item from the TRF?"),
		}}
	case TRFAwaitingChemist:
		return Set{Actions: []Action{link("Assign Chemist", "/lab/assign/"+id)}}
	case TRFInTesting:
		if row.PackageType.Int() == PackageTypeExternal {
			return Set{Actions: []Action{link("Upload Report", "/lab/testing/"+id+"/report")}}
		}
		return Set{Actions: []Action{link("Perform Test", "/lab/testing/"+id)}}
	case TRFDraftReport:
		return Set{Actions: []Action{link("View Draft Report", reportHref(id, "draft"))}}
	case TRFReviewReport:
		return Set{Actions: []Action{link("Review Report", reportHref(id, "review"))}}
	case TRFGenerateReport:
		return Set{Actions: []Action{link("Generate Report", reportHref(id, "generate"))}}
	case TRFFinalReport:
		return Set{Actions: []Action{link("View Final Report", reportHref(id, "final"))}}
	default:
		return Set{Note: "Pending TRF Approval"}
	}
}

func reportHref(id, stage string) string {
	return "/lab/testing/" + id + "?view=" + stage
}

// HODStatusInTesting is the hodstatus at which testing or report upload
// begins.
const HODStatusInTesting = 5

// HODActions maps an HOD queue row. The primary action is Upload Report for
// in-testing external-package rows and Perform Test for everything else;
// rows without a chemist additionally offer Assign Chemist.
func HODActions(row labapi.HODRequest) Set {
	trf := esc(row.TRFProduct.String())
	if trf == "" {
		trf = esc(row.ID.String())
	}
	set := Set{}
	if row.HODStatus.Int() < HODStatusInTesting && row.Chemist.String() == "" {
		set.Actions = append(set.Actions, link("Assign Chemist", "/lab/assign/"+trf))
	}
	if row.HODStatus.Int() == HODStatusInTesting && row.PackageType.Int() == PackageTypeExternal {
		set.Actions = append(set.Actions, link("Upload Report", "/lab/testing/"+trf+"/report"))
	} else {
		set.Actions = append(set.Actions, link("Perform Test", "/lab/testing/"+trf))
	}
	return set
}

// TestEventActions maps one test event on the perform-testing screen.
func TestEventActions(ev labapi.TestEvent) Set {
	base := fmt.Sprintf("/lab/testing/%s/events/%s", esc(ev.TRFProduct.String()), esc(ev.ID.String()))
	switch {
	case !ev.ChemistAssigned.Bool():
		return Set{Note: "Awaiting Chemist"}
	case ev.WitnessLock.Bool():
		return Set{Note: "Locked for Witness"}
	case ev.StartTime.String() == "" && ev.Status.Int() == 0:
		return Set{Actions: []Action{post("Start Test", base+"/start", "")}}
	case ev.DocumentExists.Bool():
		href := ev.DocumentURL.String()
		if href == "" {
			href = base + "/result"
		}
		return Set{Actions: []Action{link("View Document", href)}, Note: "Result uploaded"}
	default:
		return Set{Actions: []Action{link("Upload Result", base+"/result")}, Note: "Started " + ev.StartTime.String()}
	}
}

// DocumentActions maps a master document for the signed-in employee. The
// reviewer/approver ids are compared as trimmed strings because the backend
// sends them as either numbers or strings.
func DocumentActions(doc labapi.MasterDocument, employeeID string) Set {
	id := esc(doc.ID.String())
	view := link("View", "/lab/documents/"+id)
	if doc.ObsoleteStatus.Int() == 1 {
		return Set{Actions: []Action{view}, Note: "Obsolete"}
	}

	emp := strings.TrimSpace(employeeID)
	is := func(v labapi.FlexString) bool { return emp != "" && v.String() == emp }
	decide := func(label string, d labapi.Decision) Action {
		return link(label, "/lab/documents/"+id+"/decide?d="+string(d))
	}

	set := Set{Actions: []Action{view}}
	switch doc.ApprovalStatus.Int() {
	case labapi.ApprovalPendingReview:
		set.Note = "Pending Review"
		if is(doc.ReviewedBy) {
			set.Actions = append(set.Actions, decide("Review", labapi.DecisionReview), decide("Reject", labapi.DecisionReject))
		}
	case labapi.ApprovalPendingApproval:
		set.Note = "Pending Approval"
		if is(doc.ApprovedBy) {
			set.Actions = append(set.Actions, decide("Approve", labapi.DecisionApprove), decide("Reject", labapi.DecisionReject))
		}
	case labapi.ApprovalApproved:
		set.Note = "Approved"
		if is(doc.ApprovedBy) {
			set.Actions = append(set.Actions, decide("Mark Obsolete", labapi.DecisionObsolete))
		}
	case labapi.ApprovalRejected:
		set.Note = "Rejected"
		if is(doc.CreatedBy) {
			set.Actions = append(set.Actions, link("Edit", "/lab/documents/"+id+"/edit"))
		}
	}
	return set
}
