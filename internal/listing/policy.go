package listing

import "fmt"

// Grouping decides whether directories and files are partitioned
// before names are compared.
type Grouping int

const (
	DirectoriesFirst Grouping = iota
	FilesFirst
	Mixed
)

// ParseGrouping accepts the command line spellings directories, files and none.
func ParseGrouping(s string) (Grouping, error) {
	switch s {
	case "directories":
		return DirectoriesFirst, nil
	case "files":
		return FilesFirst, nil
	case "none":
		return Mixed, nil
	}
	return 0, fmt.Errorf("unknown grouping %q (want directories, files or none)", s)
}

func (g Grouping) String() string {
	switch g {
	case DirectoriesFirst:
		return "directories"
	case FilesFirst:
		return "files"
	case Mixed:
		return "none"
	}
	return fmt.Sprintf("Grouping(%d)", int(g))
}

// Sort orders entries by name.
type Sort int

const (
	Alphabetical Sort = iota
	ReverseAlphabetical
)

// ParseSort accepts atoz and ztoa.
func ParseSort(s string) (Sort, error) {
	switch s {
	case "atoz":
		return Alphabetical, nil
	case "ztoa":
		return ReverseAlphabetical, nil
	}
	return 0, fmt.Errorf("unknown sort %q (want atoz or ztoa)", s)
}

func (s Sort) String() string {
	switch s {
	case Alphabetical:
		return "atoz"
	case ReverseAlphabetical:
		return "ztoa"
	}
	return fmt.Sprintf("Sort(%d)", int(s))
}
