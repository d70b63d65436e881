package domain

import (
	"strconv"
	"strings"

	"github.com/smallbiznis/accountfacade/internal/config"
)

// Regulator is the authority that receives notices for one nation.
type Regulator struct {
	Nation   string
	NationID int
	Email    string
	Name     string
}

// Regulators is an immutable nation lookup table.
type Regulators struct {
	byNation map[string]Regulator
	byID     map[int]Regulator
}

func NewRegulators(entries []config.RegulatorEntry) *Regulators {
	r := &Regulators{
		byNation: make(map[string]Regulator, len(entries)),
		byID:     make(map[int]Regulator, len(entries)),
	}
	for _, entry := range entries {
		reg := Regulator{
			Nation:   strings.TrimSpace(entry.Nation),
			NationID: entry.NationID,
			Email:    strings.TrimSpace(entry.Email),
			Name:     strings.TrimSpace(entry.Name),
		}
		r.byNation[nationKey(reg.Nation)] = reg
		if reg.NationID > 0 {
			r.byID[reg.NationID] = reg
		}
	}
	return r
}

// ByNation resolves a nation name, ignoring case and surrounding spaces.
func (r *Regulators) ByNation(nation string) (Regulator, error) {
	reg, ok := r.byNation[nationKey(nation)]
	if !ok {
		return Regulator{}, &LookupError{Kind: "regulator", Key: nation}
	}
	return reg, nil
}

func (r *Regulators) ByNationID(id int) (Regulator, error) {
	reg, ok := r.byID[id]
	if !ok {
		return Regulator{}, &LookupError{Kind: "regulator", Key: strconv.Itoa(id)}
	}
	return reg, nil
}

// SameNation reports whether two nation names refer to the same nation.
func SameNation(a, b string) bool {
	return nationKey(a) == nationKey(b)
}

func nationKey(nation string) string {
	return strings.ToLower(strings.TrimSpace(nation))
}

// Templates holds the configured template id per scenario.
type Templates struct {
	RemovedUser                  string
	Nomination                   string
	DissociationRegulator        string
	DissociationProducer         string
	ResubmissionComplianceScheme string
	ResubmissionProducer         string
	UserDetailsChange            string
	ApprovedUserConfirmation     string
}

func NewTemplates(cfg config.TemplateConfig) Templates {
	return Templates{
		RemovedUser:                  strings.TrimSpace(cfg.RemovedUser),
		Nomination:                   strings.TrimSpace(cfg.Nomination),
		DissociationRegulator:        strings.TrimSpace(cfg.DissociationRegulator),
		DissociationProducer:         strings.TrimSpace(cfg.DissociationProducer),
		ResubmissionComplianceScheme: strings.TrimSpace(cfg.ResubmissionComplianceScheme),
		ResubmissionProducer:         strings.TrimSpace(cfg.ResubmissionProducer),
		UserDetailsChange:            strings.TrimSpace(cfg.UserDetailsChange),
		ApprovedUserConfirmation:     strings.TrimSpace(cfg.ApprovedUserConfirmation),
	}
}
