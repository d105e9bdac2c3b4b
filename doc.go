// Package udv versions large files next to a git repository without storing
// their bytes in git history.
//
// Tracked content is copied once into a content-addressed cache under the
// project's control directory, keyed by its digest:
//
//	.udv/cache/ab/cdef0123...
//
// Each tracked file gets a small sidecar manifest, <file>.dvc, that git
// versions instead of the file itself, and the file's path is appended to
// the project's .gitignore.
//
// Basic usage:
//
//	if err := udv.Init("."); err != nil { ... }
//
//	p, _ := udv.Open(".")
//
//	// Track a file or a whole directory
//	res, err := p.Add(ctx, "data/model.bin")
//	for _, f := range res.Files {
//	    fmt.Println(f.Path, f.Digest, f.SizeBytes)
//	}
//
//	// Directory adds keep going when a file fails
//	var addErr *udv.AddError
//	if errors.As(err, &addErr) {
//	    for _, f := range addErr.Failures { ... }
//	}
//
//	// Check a tracked file against the cache
//	_, err = p.Verify(ctx, "data/model.bin")
//
//	// Walk the manifests under a directory
//	for f, err := range p.List("data") { ... }
//
// Settings come from .udv/config (YAML) via LoadConfig:
//
//	hash_algorithm: sha256
//	jobs: 4
package udv
