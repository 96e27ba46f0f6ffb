// Package preflight provides readiness checks for the input files, working
// directories, and external binaries lyricalign depends on.
//
// These checks run in two contexts:
//   - The align workflow calls CheckInputs before loading the model, so a
//     missing lyrics file fails in milliseconds instead of after a model load.
//   - The "lyricalign doctor" command uses CheckSystemDeps to display tool
//     availability.
package preflight
