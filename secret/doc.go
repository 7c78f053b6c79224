// Package secret expands environment variables and resolves secret
// references in configuration values.
//
// References use the prefix "secretref:":
//   - secretref:env:PROBE_TOKEN_SECRET reads an environment variable.
//   - secretref:file:probe_jwt reads /run/secrets/probe_jwt.
//
// Plain values go through ExpandEnvStrict, so ${VAR} fails loudly when VAR
// is unset.
package secret
