package graph

import (
	"fmt"
	"math/rand"

	"orgtwin/internal/org"
)

// SeedConfig controls the demo snapshot generator.
type SeedConfig struct {
	Organization   string
	RolesPerFamily int
	Seed           int64
}

var seedFamilies = []struct {
	function string
	subFn    string
	group    string
	family   string
	roles    []string
}{
	{"Finance", "Financial Operations", "Transactional Finance", "Accounts Payable",
		[]string{"AP Clerk", "AP Analyst"}},
	{"Finance", "Financial Operations", "Transactional Finance", "Accounts Receivable",
		[]string{"AR Specialist", "Collections Analyst"}},
	{"Operations", "Customer Service", "Service Delivery", "Claims Processing",
		[]string{"Claims Processor", "Claims Adjuster"}},
	{"Operations", "Customer Service", "Service Delivery", "Customer Support",
		[]string{"Support Agent", "Support Team Lead"}},
}

var seedTasks = []struct {
	name           string
	classification org.Classification
	potential      float64
	level          org.AutomationLevel
}{
	{"Enter invoice data", org.Directive, 85, org.HumanOnly},
	{"Match purchase orders", org.Directive, 80, org.HumanLed},
	{"Validate the claim documents", org.Validation, 60, org.HumanLed},
	{"Reconcile vendor statements", org.FeedbackLoop, 70, org.HumanOnly},
	{"Escalate disputed items", org.Negligibility, 20, org.HumanOnly},
	{"Draft response to customer inquiry", org.Directive, 75, org.HumanLed},
	{"Review exception queue", org.Validation, 55, org.HumanLed},
	{"Update process documentation", org.Learning, 40, org.HumanOnly},
}

var seedSkills = []org.Skill{
	{ID: "skill-data-entry", Name: "Manual data entry", Category: "operational", Lifecycle: org.Declining},
	{ID: "skill-reconciliation", Name: "Account reconciliation", Category: "operational", Lifecycle: org.Stable},
	{ID: "skill-vendor-mgmt", Name: "Vendor management", Category: "relational", Lifecycle: org.Stable},
	{ID: "skill-prompt-eng", Name: "Prompt engineering", Category: "technical", Lifecycle: org.Emerging},
	{ID: "skill-exception-handling", Name: "Exception handling", Category: "analytical", Lifecycle: org.Stable},
}

var seedTechnologies = []org.Technology{
	{ID: "tech-uipath", Name: "UiPath", Category: "rpa", AdoptionStage: "mainstream",
		Capabilities: []string{"data", "entry", "invoice", "reconcile", "extract"}},
	{ID: "tech-docai", Name: "Document AI", Category: "idp", AdoptionStage: "growth",
		Capabilities: []string{"document", "claim", "extract", "classify", "validate"}},
	{ID: "tech-convai", Name: "Conversational AI", Category: "nlp", AdoptionStage: "growth",
		Capabilities: []string{"inquiry", "response", "customer", "chat", "draft"}},
}

// Seed generates a deterministic demo organization snapshot.
func Seed(cfg SeedConfig) *Snapshot {
	if cfg.Organization == "" {
		cfg.Organization = "Acme Holdings"
	}
	rng := rand.New(rand.NewSource(cfg.Seed))

	snap := &Snapshot{
		Organization: cfg.Organization,
		Skills:       append([]org.Skill(nil), seedSkills...),
		Technologies: append([]org.Technology(nil), seedTechnologies...),
		TaskSkills:   make(map[string][]org.TaskSkill),
	}

	units := map[string]string{} // name -> id, per tier prefix
	addUnit := func(list *[]OrgUnit, prefix, name, parentID string) string {
		key := prefix + "/" + name
		if id, ok := units[key]; ok {
			return id
		}
		id := fmt.Sprintf("%s-%d", prefix, len(*list)+1)
		*list = append(*list, OrgUnit{ID: id, Name: name, ParentID: parentID})
		units[key] = id
		return id
	}

	bands := []org.CareerBand{org.BandEntry, org.BandAssociate, org.BandSenior}

	for fi, fam := range seedFamilies {
		fnID := addUnit(&snap.Functions, "fn", fam.function, "")
		sfID := addUnit(&snap.SubFunctions, "sf", fam.subFn, fnID)
		grID := addUnit(&snap.JobFamilyGroups, "jfg", fam.group, sfID)
		jfID := addUnit(&snap.JobFamilies, "jf", fam.family, grID)

		roleNames := fam.roles
		if cfg.RolesPerFamily > 0 && cfg.RolesPerFamily < len(roleNames) {
			roleNames = roleNames[:cfg.RolesPerFamily]
		}
		for ri, roleName := range roleNames {
			roleID := fmt.Sprintf("role-%d-%d", fi+1, ri+1)
			headcount := float64(40 + rng.Intn(120))
			salary := float64(45000 + rng.Intn(40000))
			role := org.Role{
				ID:          roleID,
				Name:        roleName,
				JobFamilyID: jfID,
				Headcount:   headcount,
				AvgSalary:   salary,
				SkillIDs:    []string{seedSkills[rng.Intn(len(seedSkills))].ID, seedSkills[rng.Intn(len(seedSkills))].ID},
			}

			// Split the role population into banded titles.
			remaining := headcount
			for bi, band := range bands {
				share := remaining
				if bi < len(bands)-1 {
					share = float64(int(headcount * (0.5 - 0.15*float64(bi))))
				}
				remaining -= share
				snap.JobTitles = append(snap.JobTitles, org.JobTitle{
					ID:        fmt.Sprintf("%s-title-%d", roleID, bi+1),
					RoleID:    roleID,
					Name:      fmt.Sprintf("%s %s", roleName, band),
					Band:      band,
					Headcount: share,
					AvgSalary: salary * (0.85 + 0.15*float64(bi)),
				})
			}

			// Two workloads per role, with tasks sampled from the pool.
			for wi := 0; wi < 2; wi++ {
				wlID := fmt.Sprintf("%s-wl-%d", roleID, wi+1)
				wl := org.Workload{
					ID:        wlID,
					RoleID:    roleID,
					Name:      fmt.Sprintf("%s workload %d", roleName, wi+1),
					EffortPct: 50,
					Level:     org.HumanLed,
				}
				taskCount := 2 + rng.Intn(2)
				timePct := 100.0 / float64(taskCount)
				for ti := 0; ti < taskCount; ti++ {
					tmpl := seedTasks[rng.Intn(len(seedTasks))]
					taskID := fmt.Sprintf("%s-task-%d", wlID, ti+1)
					snap.Tasks = append(snap.Tasks, org.Task{
						ID:                  taskID,
						WorkloadID:          wlID,
						Name:                tmpl.name,
						Classification:      tmpl.classification,
						TimePct:             timePct,
						AutomationPotential: tmpl.potential,
						Level:               tmpl.level,
					})
					wl.TaskIDs = append(wl.TaskIDs, taskID)

					sk := seedSkills[rng.Intn(len(seedSkills))]
					rel := org.Primary
					if rng.Float64() < 0.4 {
						rel = org.Secondary
					}
					snap.TaskSkills[taskID] = append(snap.TaskSkills[taskID], org.TaskSkill{
						SkillID: sk.ID, SkillName: sk.Name, Relevance: rel,
					})
				}
				role.AutomationScore += wl.Level.Fraction() / 2
				snap.Workloads = append(snap.Workloads, wl)
			}

			snap.Roles = append(snap.Roles, role)
		}
	}

	return snap
}
