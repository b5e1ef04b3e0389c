// Deterministic category chooser. No model calls.
// Taxonomy is tailored to a construction/engineering heavy job board.
// Order matters: first match wins, so specific disciplines must stay
// above the generic engineering bucket.

package category

import "regexp"

type Rule struct {
	Label   string
	Pattern *regexp.Regexp
}

var rules = []Rule{
	//Core construction / site roles
	{"Construction / Site Management", regexp.MustCompile(`(?i)(construction\s*manager|site\s*(manager|engineer)|camp\s*boss|general\s*foreman|superintendent)`)},

	//Engineering disciplines
	{"Civil Engineering", regexp.MustCompile(`(?i)(\bcivil\b|structural|infrastructure|road\b|highway|bridge|tunnel|concrete|rebar|estimat|land\s*survey(or)?|\bqs\b|quantity\s*survey(or)?|cost\s*control)`)},
	{"Mechanical (MEP)", regexp.MustCompile(`(?i)(\bmechanical\b|mep\b|plumbing|fire\s*fighting|hvac|chiller|duct|pump|piping|rotating\s*equipment|static\s*equipment)`)},
	{"Electrical (Power/ELV)", regexp.MustCompile(`(?i)(electrical|\belv\b|low\s*current|substation|mv\b|lv\b|transformer|protection\s*relay|switchgear|power\s*system|panel\s*board)`)},
	{"Instrumentation & Control", regexp.MustCompile(`(?i)(instrumentation|\bics\b|control\s*systems|dcs\b|plc\b|scada\b|loop\s*check|calibration)`)},
	{"Telecom", regexp.MustCompile(`(?i)(telecom|fiber\s*optics|\bfttx\b|structured\s*cabling|\bbms\b|avs\b|pa/ga)`)},

	//Project controls
	{"Planning / Scheduling", regexp.MustCompile(`(?i)(planning|scheduler|primavera|\bp6\b|project\s*controls)`)},
	{"Estimation / Cost Control", regexp.MustCompile(`(?i)(estimator|estimation|tender|bid|boq\b|cost\s*(control|engineer)|pricing)`)},

	//QA/Safety
	{"HSE & Safety", regexp.MustCompile(`(?i)(\bhse\b|\bohs\b|safety\b|nebosh|osha\b|iosh\b|permit\s*to\s*work|ptw)`)},
	{"QA/QC", regexp.MustCompile(`(?i)(\bqa\b|\bqc\b|quality\s*(assurance|control)|welding\s*inspection|ndt\b|coating\s*inspection)`)},

	//PM / Leadership
	{"Project Management", regexp.MustCompile(`(?i)(project\s*(manager|engineer|coordinator)|\bpm\b|epc\b|lead\s*engineer)`)},

	//Commercial & supply
	{"Procurement & Supply", regexp.MustCompile(`(?i)(procure|buyer|purchas|expedit|vendor\s*dev|supply\s*chain|material\s*controller?)`)},
	{"Logistics / Warehouse", regexp.MustCompile(`(?i)(warehouse|store\s*keeper|storeman|logistics|inventory|material\s*handling)`)},

	//Technical support
	{"Drafting / CAD / BIM", regexp.MustCompile(`(?i)(drafts?man|autocad|cad\b|revit|bim\b|shop\s*drawings?)`)},
	{"Commissioning / T&C", regexp.MustCompile(`(?i)(commission(ing)?|testing\s*&?\s*commissioning|pre\s*commissioning|start\s*up)`)},
	{"Operations & Maintenance", regexp.MustCompile(`(?i)(operations?\b|\bo&m\b|maintenance\b|facility\s*maintenance|preventive\s*maintenance)`)},

	//Office functions
	{"Document Control & Admin", regexp.MustCompile(`(?i)(document\s*control(ler)?|dms\b|secretar|admin\b)`)},
	{"IT / Systems", regexp.MustCompile(`(?i)(it\s+support|system\s+admin|network|help\s*desk|erp|sap\b|oracle\b)`)},
	{"Finance / Accounting", regexp.MustCompile(`(?i)(accountant|finance|auditor|payroll|ap/?ar|bookkeep)`)},
	{"HR / Recruitment", regexp.MustCompile(`(?i)(hr\b|human\s*resources|recruit(er|ment))`)},
	{"Sales / Business Development", regexp.MustCompile(`(?i)(sales\b|business\s*development|bd\b|marketing)`)},

	//Fallback bucket for anything still carrying the engineer keyword
	{"General Engineering", regexp.MustCompile(`(?i)(engineer|engineering)`)},

	//Final fallback, matches anything
	{"Other", regexp.MustCompile(`(?s).`)},
}

// Default is the guaranteed-reachable final label.
const Default = "Other"

// Choose concatenates title and description and returns the label of the
// first matching rule. Deterministic and idempotent for identical input.
func Choose(title, desc string) string {
	hay := title + " " + desc
	for _, r := range rules {
		if r.Pattern.MatchString(hay) {
			return r.Label
		}
	}
	return Default
}

// Rules exposes the table for diagnostics; callers must not mutate it.
func Rules() []Rule {
	return rules
}
