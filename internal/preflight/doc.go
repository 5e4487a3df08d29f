// Package preflight provides readiness checks for the filesystem paths,
// reference tables, and archive driver the pipeline depends on.
//
// These checks run in two contexts:
//   - The watch daemon calls RunAll at startup. If any check fails, the
//     daemon refuses to start rather than fail on the first catalog arrival.
//   - The CLI "sedgen preflight" command renders the same results so a
//     misconfigured installation is diagnosable before anything runs.
//
// Directory checks are gated on the corresponding path being configured.
package preflight
