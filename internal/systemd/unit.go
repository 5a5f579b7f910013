// Package systemd renders a service unit for running the agent as a daemon.
package systemd

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"
)

// DefaultBinary is where install scripts place the agent.
const DefaultBinary = "/usr/local/bin/tgagent"

// UnitOptions parameterize the rendered unit.
type UnitOptions struct {
	Binary    string
	User      string
	Workspace string
	// EnvFile holds TELEGRAM_BOT_TOKEN and friends. Secrets never go in the unit itself.
	EnvFile  string
	AuditLog string
}

var unitTmpl = template.Must(template.New("unit").Parse(`[Unit]
Description=tgagent Telegram remote control ({{.Workspace}})
After=network-online.target
Wants=network-online.target

[Service]
Type=simple
{{- if .User}}
User={{.User}}
{{- end}}
WorkingDirectory={{.Workspace}}
EnvironmentFile={{.EnvFile}}
Environment=TELEGRAM_WORKSPACE={{.Workspace}}
ExecStart={{.Binary}} run{{if .AuditLog}} --audit-log {{.AuditLog}}{{end}}
Restart=on-failure
RestartSec=5
NoNewPrivileges=true
PrivateTmp=true
ProtectSystem=strict
ReadWritePaths={{.Workspace}}{{if .AuditLog}} {{.AuditDir}}{{end}}

[Install]
WantedBy=multi-user.target
`))

// Unit renders the service unit for opts.
func Unit(opts UnitOptions) (string, error) {
	if opts.Binary == "" {
		opts.Binary = DefaultBinary
	}
	if opts.Workspace == "" {
		return "", errors.New("workspace is required")
	}
	if opts.EnvFile == "" {
		return "", errors.New("environment file is required")
	}
	for _, p := range []string{opts.Binary, opts.Workspace, opts.EnvFile, opts.AuditLog} {
		if p != "" && !filepath.IsAbs(p) {
			return "", fmt.Errorf("path %q must be absolute", p)
		}
		if strings.ContainsAny(p, " \n") {
			return "", fmt.Errorf("path %q must not contain whitespace", p)
		}
	}

	data := struct {
		UnitOptions
		AuditDir string
	}{UnitOptions: opts}
	if opts.AuditLog != "" {
		data.AuditDir = filepath.Dir(opts.AuditLog)
	}

	var b strings.Builder
	if err := unitTmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("render unit: %w", err)
	}
	return b.String(), nil
}
