package content_test

import (
	"encoding/json"
	"testing"

	apperrors "github.com/medinal/swade-character-creator/internal/platform/errors"
	"github.com/medinal/swade-character-creator/internal/services/game/domain/systems/swade"
	"github.com/medinal/swade-character-creator/internal/services/game/domain/systems/swade/content"
	"github.com/medinal/swade-character-creator/internal/services/game/domain/systems/swade/content/contenttest"
	"github.com/medinal/swade-character-creator/internal/services/game/domain/systems/swade/modifier"
	"github.com/medinal/swade-character-creator/internal/services/game/domain/systems/swade/requirement"
)

func TestFixtureIsValid(t *testing.T) {
	if _, err := content.New(contenttest.Data()); err != nil {
		t.Fatalf("fixture catalog: %v", err)
	}
}

func TestLookups(t *testing.T) {
	c := contenttest.Catalog()

	skill, err := c.Skill("fighting")
	if err != nil {
		t.Fatalf("skill: %v", err)
	}
	if skill.LinkedAttribute != "agility" {
		t.Fatalf("fighting links %q", skill.LinkedAttribute)
	}

	_, err = c.Edge("ambidextrous")
	if !apperrors.HasCode(err, apperrors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
	if got := apperrors.CodeOf(err); got != apperrors.CodeNotFound {
		t.Fatalf("code = %s", got)
	}

	if len(c.CoreSkills()) != 5 {
		t.Fatalf("expected 5 core skills, got %d", len(c.CoreSkills()))
	}
	if !c.Has(content.KindGear, "long_sword") || c.Has(content.KindGear, "bolt") {
		t.Fatal("Has returned wrong result")
	}
}

func TestPrerequisitesIncludeRank(t *testing.T) {
	c := contenttest.Catalog()
	block, err := c.Edge("block")
	if err != nil {
		t.Fatalf("edge: %v", err)
	}
	want := "Seasoned and Fighting d8+"
	if got := requirement.Describe(block.Prerequisites()); got != want {
		t.Fatalf("describe = %q, want %q", got, want)
	}

	alertness, _ := c.Edge("alertness")
	if got := requirement.Describe(alertness.Prerequisites()); got != "no requirements" {
		t.Fatalf("describe = %q", got)
	}

	blast, _ := c.Power("blast")
	if got := requirement.Describe(blast.Prerequisites()); got != "Arcane Background (any) and Seasoned" {
		t.Fatalf("describe = %q", got)
	}
}

func TestNewRejectsInvalidData(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*content.Data)
	}{
		{"duplicate id", func(d *content.Data) { d.Edges = append(d.Edges, d.Edges[0]) }},
		{"missing id", func(d *content.Data) { d.Gear[0].ID = "" }},
		{"unknown linked attribute", func(d *content.Data) { d.Skills[0].LinkedAttribute = "luck" }},
		{"unknown category", func(d *content.Data) { d.Edges[0].Category = "mystic" }},
		{"unknown severity", func(d *content.Data) { d.Hindrances[0].Severity = "moderate" }},
		{"one-sided companion", func(d *content.Data) { d.Hindrances[0].CompanionID = "pacifist_major" }},
		{"same severity companions", func(d *content.Data) {
			for i := range d.Hindrances {
				if d.Hindrances[i].ID == "pacifist_major" {
					d.Hindrances[i].Severity = content.SeverityMinor
				}
			}
		}},
		{"unknown requirement target", func(d *content.Data) {
			d.Edges[0].Requirements = requirement.Tree{Expr: requirement.EdgeHeld("ambidextrous")}
		}},
		{"unknown modifier target", func(d *content.Data) {
			d.Gear[0].Modifiers = []modifier.Modifier{modifier.FlatBonus(modifier.TargetDerived, "charisma", 1)}
		}},
		{"unknown free edge", func(d *content.Data) { d.Ancestries[0].FreeEdges = []string{"ambidextrous"} }},
		{"unknown arcane skill", func(d *content.Data) { d.ArcaneBackgrounds[0].ArcaneSkill = "psionics" }},
		{"no attributes", func(d *content.Data) { d.Attributes = nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := contenttest.Data()
			tt.mutate(&data)
			if _, err := content.New(data); !apperrors.HasCode(err, apperrors.CodeInvalidReference) {
				t.Fatalf("expected INVALID_REFERENCE, got %v", err)
			}
		})
	}
}

func TestParseNames(t *testing.T) {
	if c, err := content.ParseEdgeCategory("Combat"); err != nil || c != content.EdgeCombat {
		t.Fatalf("ParseEdgeCategory = %q, %v", c, err)
	}
	if _, err := content.ParseEdgeCategory("misc"); err == nil {
		t.Fatal("expected unknown category to fail instead of falling back")
	}
	if s, err := content.ParseSeverity("MAJOR"); err != nil || s != content.SeverityMajor {
		t.Fatalf("ParseSeverity = %q, %v", s, err)
	}
	if _, err := content.ParseKind("spell"); err == nil {
		t.Fatal("expected unknown kind to fail")
	}
}

func TestSeverityPoints(t *testing.T) {
	cfg := swade.DefaultConfig()
	if content.SeverityMinor.Points(cfg) != 1 || content.SeverityMajor.Points(cfg) != 2 {
		t.Fatal("unexpected hindrance point values")
	}
}

func TestList(t *testing.T) {
	c := contenttest.Catalog()
	tests := []struct {
		kind   content.Kind
		filter string
		want   []string
	}{
		{content.KindAttribute, "", []string{"agility", "smarts", "spirit", "strength", "vigor"}},
		{content.KindEdge, `category = "combat" AND rank <= 1`, []string{"block", "marksman"}},
		{content.KindHindrance, `severity = "major" AND companion_id != ""`, []string{"pacifist_major", "bad_eyes_major", "slow_major"}},
		{content.KindPower, `power_points >= 3`, []string{"healing", "blast", "fly"}},
		{content.KindSkill, `linked_attribute = "spirit"`, []string{"persuasion", "faith", "intimidation"}},
		{content.KindGear, `cost < 100`, []string{"leather_jacket", "small_shield"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind)+" "+tt.filter, func(t *testing.T) {
			entries, err := c.List(tt.kind, tt.filter)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			var got []string
			for _, e := range entries {
				got = append(got, e.ID)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("ids = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("ids = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestListRejectsBadFilter(t *testing.T) {
	c := contenttest.Catalog()
	if _, err := c.List(content.KindEdge, `severity = "major"`); !apperrors.HasCode(err, apperrors.CodeInvalidFilter) {
		t.Fatalf("expected INVALID_FILTER, got %v", err)
	}
	if _, err := c.List("spell", ""); !apperrors.HasCode(err, apperrors.CodeInvalidReference) {
		t.Fatalf("expected INVALID_REFERENCE, got %v", err)
	}
}

func TestDataJSONRoundTrip(t *testing.T) {
	payload, err := json.Marshal(contenttest.Data())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded content.Data
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	c, err := content.New(decoded)
	if err != nil {
		t.Fatalf("catalog from decoded data: %v", err)
	}
	block, _ := c.Edge("block")
	if block.Rank != swade.RankSeasoned || block.Requirements.Expr == nil {
		t.Fatalf("block lost rank or requirements: %+v", block)
	}
}
