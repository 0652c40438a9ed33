// Package files finds the workbooks the command-line processor reads.
//
// Discovery resolves a mix of files and directories into a deduplicated,
// name-ordered list of .xlsx workbooks. Office lock files (~$name.xlsx) and
// other extensions are skipped when scanning a directory and rejected when
// named explicitly.
//
// Example usage:
//
//	discovery := files.NewDiscovery(paths.DataDir)
//	workbooks, err := discovery.Resolve([]string{"ventes", "LIVRAISON_2025.xlsx"})
package files
