package batch

// Digest is the merged result for one week.
type Digest struct {
	Week  int
	Files []string
	Items []MergedItem
}

// Build scans dir, loads every matching file, and merges them. Any invalid
// file aborts the build so no partial digest can be produced.
func Build(dir string, week int) (*Digest, error) {
	paths, err := Scan(dir, week)
	if err != nil {
		return nil, err
	}
	files, err := Load(paths)
	if err != nil {
		return nil, err
	}
	return &Digest{
		Week:  week,
		Files: paths,
		Items: Merge(files),
	}, nil
}
