package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// CatalogConfig is the static lookup data loaded once at startup: the role
// catalog, the regulator table and the notification template ids.
type CatalogConfig struct {
	Roles      []RoleEntry      `mapstructure:"roles"`
	Regulators []RegulatorEntry `mapstructure:"regulators"`
	Templates  TemplateConfig   `mapstructure:"templates"`
}

type RoleEntry struct {
	Key                  string `mapstructure:"key"`
	ServiceRoleID        int    `mapstructure:"service_role_id"`
	PersonRoleID         int    `mapstructure:"person_role_id"`
	EnrolmentStatus      string `mapstructure:"enrolment_status"`
	InvitationTemplateID string `mapstructure:"invitation_template_id"`
	DescriptionKey       string `mapstructure:"description_key"`
}

type RegulatorEntry struct {
	Nation   string `mapstructure:"nation"`
	NationID int    `mapstructure:"nation_id"`
	Email    string `mapstructure:"email"`
	Name     string `mapstructure:"name"`
}

type TemplateConfig struct {
	RemovedUser                  string `mapstructure:"removed_user"`
	Nomination                   string `mapstructure:"nomination"`
	DissociationRegulator        string `mapstructure:"dissociation_regulator"`
	DissociationProducer         string `mapstructure:"dissociation_producer"`
	ResubmissionComplianceScheme string `mapstructure:"resubmission_compliance_scheme"`
	ResubmissionProducer         string `mapstructure:"resubmission_producer"`
	UserDetailsChange            string `mapstructure:"user_details_change"`
	ApprovedUserConfirmation     string `mapstructure:"approved_user_confirmation"`
}

func DefaultCatalogConfig() CatalogConfig {
	return CatalogConfig{
		Roles: []RoleEntry{
			{Key: "Approved.Admin", ServiceRoleID: 1, PersonRoleID: 1, EnrolmentStatus: "NotSet", DescriptionKey: "ApprovedPerson"},
			{Key: "Delegated.Admin", ServiceRoleID: 2, PersonRoleID: 1, EnrolmentStatus: "NotSet", DescriptionKey: "DelegatedPerson"},
			{Key: "Basic.Admin", ServiceRoleID: 3, PersonRoleID: 1, EnrolmentStatus: "NotSet", InvitationTemplateID: "a0b8c9d4-2f1e-4c3b-9a5d-6e7f8a9b0c1d", DescriptionKey: "AdminUser"},
			{Key: "Basic.Employee", ServiceRoleID: 3, PersonRoleID: 2, EnrolmentStatus: "NotSet", InvitationTemplateID: "b1c9d0e5-3a2f-4d4c-8b6e-7f809aa1b2d3", DescriptionKey: "BasicUser"},
		},
		Regulators: []RegulatorEntry{
			{Nation: "England", NationID: 1, Email: "england.regulator@example.gov.uk", Name: "Environment Agency"},
			{Nation: "NorthernIreland", NationID: 2, Email: "ni.regulator@example.gov.uk", Name: "Northern Ireland Environment Agency"},
			{Nation: "Scotland", NationID: 3, Email: "scotland.regulator@example.gov.uk", Name: "Scottish Environment Protection Agency"},
			{Nation: "Wales", NationID: 4, Email: "wales.regulator@example.gov.uk", Name: "Natural Resources Wales"},
		},
		Templates: TemplateConfig{
			RemovedUser:                  "removed-user",
			Nomination:                   "delegated-person-nomination",
			DissociationRegulator:        "member-dissociation-regulator",
			DissociationProducer:         "member-dissociation-producer",
			ResubmissionComplianceScheme: "resubmission-compliance-scheme",
			ResubmissionProducer:         "resubmission-producer",
			UserDetailsChange:            "user-details-change",
			ApprovedUserConfirmation:     "approved-user-confirmation",
		},
	}
}

// LoadCatalog reads facade.yml once. Missing file or missing sections fall back
// to DefaultCatalogConfig. The result is never reloaded.
func LoadCatalog(cfg Config) (CatalogConfig, error) {
	v := viper.New()

	if cfg.CatalogPath != "" {
		if _, err := os.Stat(cfg.CatalogPath); err != nil {
			return CatalogConfig{}, fmt.Errorf("catalog file: %w", err)
		}
		v.SetConfigFile(cfg.CatalogPath)
	} else {
		v.SetConfigName("facade")
		v.SetConfigType("yml")
		v.AddConfigPath("/etc/account-facade")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("FACADE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultCatalogConfig()
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return CatalogConfig{}, err
		}
		return defaults, nil
	}

	var loaded CatalogConfig
	if err := v.UnmarshalKey("catalog", &loaded); err != nil {
		return CatalogConfig{}, err
	}
	merged := mergeCatalog(loaded, defaults)
	if err := validateCatalog(merged); err != nil {
		return CatalogConfig{}, err
	}
	return merged, nil
}

func mergeCatalog(loaded, defaults CatalogConfig) CatalogConfig {
	if len(loaded.Roles) == 0 {
		loaded.Roles = defaults.Roles
	}
	if len(loaded.Regulators) == 0 {
		loaded.Regulators = defaults.Regulators
	}

	t := &loaded.Templates
	d := defaults.Templates
	fill := func(dst *string, def string) {
		if strings.TrimSpace(*dst) == "" {
			*dst = def
		}
	}
	fill(&t.RemovedUser, d.RemovedUser)
	fill(&t.Nomination, d.Nomination)
	fill(&t.DissociationRegulator, d.DissociationRegulator)
	fill(&t.DissociationProducer, d.DissociationProducer)
	fill(&t.ResubmissionComplianceScheme, d.ResubmissionComplianceScheme)
	fill(&t.ResubmissionProducer, d.ResubmissionProducer)
	fill(&t.UserDetailsChange, d.UserDetailsChange)
	fill(&t.ApprovedUserConfirmation, d.ApprovedUserConfirmation)
	return loaded
}

func validateCatalog(cfg CatalogConfig) error {
	keys := make(map[string]struct{}, len(cfg.Roles))
	for _, role := range cfg.Roles {
		key := strings.TrimSpace(role.Key)
		if key == "" {
			return errors.New("catalog.roles: key cannot be empty")
		}
		if _, dup := keys[key]; dup {
			return fmt.Errorf("catalog.roles: duplicate key %q", key)
		}
		keys[key] = struct{}{}
	}

	nations := make(map[string]struct{}, len(cfg.Regulators))
	ids := make(map[int]struct{}, len(cfg.Regulators))
	for _, reg := range cfg.Regulators {
		nation := strings.ToLower(strings.TrimSpace(reg.Nation))
		if nation == "" {
			return errors.New("catalog.regulators: nation cannot be empty")
		}
		if strings.TrimSpace(reg.Email) == "" {
			return fmt.Errorf("catalog.regulators: email missing for %s", reg.Nation)
		}
		if _, dup := nations[nation]; dup {
			return fmt.Errorf("catalog.regulators: duplicate nation %q", reg.Nation)
		}
		if _, dup := ids[reg.NationID]; dup {
			return fmt.Errorf("catalog.regulators: duplicate nation_id %d", reg.NationID)
		}
		nations[nation] = struct{}{}
		ids[reg.NationID] = struct{}{}
	}
	return nil
}
