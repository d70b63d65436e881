package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCatalog(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "facade.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadCatalog_MissingFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	catalog, err := LoadCatalog(Config{})
	require.NoError(t, err)
	assert.Equal(t, DefaultCatalogConfig(), catalog)
}

func TestLoadCatalog_ExplicitPathMissingIsError(t *testing.T) {
	_, err := LoadCatalog(Config{CatalogPath: filepath.Join(t.TempDir(), "nope.yml")})
	assert.Error(t, err)
}

func TestLoadCatalog_ReadsRolesAndMergesTemplates(t *testing.T) {
	path := writeCatalog(t, `
catalog:
  roles:
    - key: Approved.Admin
      service_role_id: 1
      person_role_id: 1
      description_key: ApprovedPerson
    - key: Basic.Employee
      service_role_id: 3
      person_role_id: 2
      invitation_template_id: tmpl-employee
  templates:
    removed_user: custom-removed
`)

	catalog, err := LoadCatalog(Config{CatalogPath: path})
	require.NoError(t, err)

	require.Len(t, catalog.Roles, 2)
	assert.Equal(t, "Basic.Employee", catalog.Roles[1].Key)
	assert.Equal(t, 3, catalog.Roles[1].ServiceRoleID)
	assert.Equal(t, "tmpl-employee", catalog.Roles[1].InvitationTemplateID)

	assert.Equal(t, DefaultCatalogConfig().Regulators, catalog.Regulators)
	assert.Equal(t, "custom-removed", catalog.Templates.RemovedUser)
	assert.Equal(t, "delegated-person-nomination", catalog.Templates.Nomination)
}

func TestLoadCatalog_RejectsDuplicates(t *testing.T) {
	cases := map[string]string{
		"duplicate role key": `
catalog:
  roles:
    - key: Basic.Admin
      service_role_id: 3
      person_role_id: 1
    - key: Basic.Admin
      service_role_id: 3
      person_role_id: 2
`,
		"duplicate nation": `
catalog:
  regulators:
    - nation: England
      nation_id: 1
      email: a@example.com
    - nation: england
      nation_id: 2
      email: b@example.com
`,
		"missing email": `
catalog:
  regulators:
    - nation: Wales
      nation_id: 4
`,
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadCatalog(Config{CatalogPath: writeCatalog(t, body)})
			assert.Error(t, err)
		})
	}
}

func TestLoad_ReadsEnvironment(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9999")
	t.Setenv("EMAIL_PROVIDER", "SMTP")
	t.Setenv("DOWNSTREAM_TIMEOUT", "3s")
	t.Setenv("ACCOUNTS_BASE_URL", "http://accounts.local/")
	t.Setenv("SMTP_PORT", "not-a-number")
	t.Setenv("OTEL_ENABLED", "yes")
	t.Setenv("OTEL_EXPORTER_OTLP_PROTOCOL", "grpc")
	t.Setenv("OTEL_EXPORTER_OTLP_TRACES_PROTOCOL", "HTTP")
	t.Setenv("OTEL_SAMPLING_RATIO", "0.5")

	cfg := Load()
	assert.Equal(t, ":9999", cfg.HTTPAddr)
	assert.Equal(t, EmailProviderSMTP, cfg.Email.Provider)
	assert.Equal(t, "3s", cfg.Downstream.Timeout.String())
	assert.Equal(t, "http://accounts.local", cfg.Downstream.AccountsBaseURL)
	assert.Equal(t, 1025, cfg.Email.SMTPPort)
	assert.True(t, cfg.Tracing.Enabled)
	assert.Equal(t, "http", cfg.Tracing.Protocol)
	assert.Equal(t, 0.5, cfg.Tracing.SamplingRatio)
}

func TestNormalizeEmailProvider(t *testing.T) {
	assert.Equal(t, EmailProviderNotify, normalizeEmailProvider(" Notify "))
	assert.Equal(t, EmailProviderNoop, normalizeEmailProvider("sendgrid"))
	assert.Equal(t, EmailProviderNoop, normalizeEmailProvider(""))
}
