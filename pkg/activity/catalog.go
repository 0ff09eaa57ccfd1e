package activity

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/klokku/timetrack/internal/textfile"
)

// Category is one node of the activity namespace.
type Category struct {
	Branches map[string]*Category
	Leaves   map[string]Activity
}

func newCategory() *Category {
	return &Category{
		Branches: map[string]*Category{},
		Leaves:   map[string]Activity{},
	}
}

// BuildTree arranges activities by their path segments.
func BuildTree(activities []Activity) (*Category, error) {
	root := newCategory()
	for _, a := range activities {
		if err := root.insert(a); err != nil {
			return nil, err
		}
	}
	return root, nil
}

func (c *Category) insert(a Activity) error {
	node := c
	for _, segment := range a.Path {
		if _, isLeaf := node.Leaves[segment]; isLeaf {
			return fmt.Errorf("%s: %w", a.FullPath(), ErrPathConflict)
		}
		child, ok := node.Branches[segment]
		if !ok {
			child = newCategory()
			node.Branches[segment] = child
		}
		node = child
	}
	if _, isBranch := node.Branches[a.Name]; isBranch {
		return fmt.Errorf("%s: %w", a.FullPath(), ErrPathConflict)
	}
	if _, exists := node.Leaves[a.Name]; exists {
		return fmt.Errorf("%s: %w", a.FullPath(), ErrDuplicateName)
	}
	node.Leaves[a.Name] = a
	return nil
}

// Find walks the tree along segments and returns the category found there.
func (c *Category) Find(segments []string) (*Category, bool) {
	node := c
	for _, segment := range segments {
		child, ok := node.Branches[segment]
		if !ok {
			return nil, false
		}
		node = child
	}
	return node, true
}

// Activities returns every leaf below c, sorted by full path.
func (c *Category) Activities() []Activity {
	var result []Activity
	var walk func(node *Category)
	walk = func(node *Category) {
		for _, leaf := range node.Leaves {
			result = append(result, leaf)
		}
		for _, branch := range node.Branches {
			walk(branch)
		}
	}
	walk(c)
	slices.SortFunc(result, func(a, b Activity) int {
		return strings.Compare(a.FullPath(), b.FullPath())
	})
	return result
}

// Row is one line of a catalog listing. Branch rows only carry a name.
type Row struct {
	Name        string
	BillingCode string
	Description string
	Branch      bool
}

func (c *Category) expandedRows() []Row {
	activities := c.Activities()
	rows := make([]Row, 0, len(activities))
	for _, a := range activities {
		rows = append(rows, Row{Name: a.FullPath(), BillingCode: a.BillingCode, Description: a.DefaultDescription})
	}
	return rows
}

func (c *Category) collapsedRows() []Row {
	branchNames := make([]string, 0, len(c.Branches))
	for name := range c.Branches {
		branchNames = append(branchNames, name)
	}
	slices.Sort(branchNames)

	leafNames := make([]string, 0, len(c.Leaves))
	for name := range c.Leaves {
		leafNames = append(leafNames, name)
	}
	slices.Sort(leafNames)

	rows := make([]Row, 0, len(branchNames)+len(leafNames))
	for _, name := range branchNames {
		rows = append(rows, Row{Name: name + PathSeparator, Branch: true})
	}
	for _, name := range leafNames {
		leaf := c.Leaves[name]
		rows = append(rows, Row{Name: leaf.Name, BillingCode: leaf.BillingCode, Description: leaf.DefaultDescription})
	}
	return rows
}

// Catalog is the set of defined activities. The flat list is the source of
// truth; the tree is rebuilt from it whenever it is needed.
type Catalog struct {
	activities []Activity
}

// NewCatalog validates activities and adds the built-in Idle activity.
func NewCatalog(activities []Activity) (*Catalog, error) {
	c := &Catalog{activities: make([]Activity, 0, len(activities)+1)}
	for _, a := range activities {
		if a.IsBuiltin() {
			continue
		}
		c.activities = append(c.activities, a)
	}
	c.activities = append(c.activities, Idle())
	if _, err := BuildTree(c.activities); err != nil {
		return nil, err
	}
	return c, nil
}

// Load parses catalog lines read from r. Any malformed line, duplicate or
// conflicting path aborts loading with a *textfile.LineError.
func Load(source string, r io.Reader) (*Catalog, error) {
	var activities []Activity
	tree := newCategory()
	tree.Leaves[IdleName] = Idle()
	err := textfile.ParseLines(source, r, func(line string) error {
		a, err := ParseActivity(line)
		if err != nil {
			return err
		}
		if err := tree.insert(a); err != nil {
			return err
		}
		activities = append(activities, a)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return NewCatalog(activities)
}

// Activities returns the persisted activities in storage order, without Idle.
func (c *Catalog) Activities() []Activity {
	result := make([]Activity, 0, len(c.activities))
	for _, a := range c.activities {
		if !a.IsBuiltin() {
			result = append(result, a)
		}
	}
	return result
}

// Lines renders the catalog file content.
func (c *Catalog) Lines() []string {
	activities := c.Activities()
	lines := make([]string, 0, len(activities))
	for _, a := range activities {
		lines = append(lines, a.String())
	}
	return lines
}

func (c *Catalog) Tree() *Category {
	// the list is validated on every mutation, so building cannot fail here
	tree, _ := BuildTree(c.activities)
	return tree
}

func (c *Catalog) Add(a Activity) (Activity, error) {
	if err := a.validate(); err != nil {
		return Activity{}, err
	}
	if a.IsBuiltin() {
		return Activity{}, fmt.Errorf("%s: %w", a.FullPath(), ErrDuplicateName)
	}
	if _, err := BuildTree(append(slices.Clone(c.activities), a)); err != nil {
		return Activity{}, err
	}
	c.activities = append(c.activities, a)
	return a, nil
}

func (c *Catalog) Remove(path string) (Activity, error) {
	a, err := c.Resolve(path)
	if err != nil {
		return Activity{}, err
	}
	if a.IsBuiltin() {
		return Activity{}, fmt.Errorf("%s: %w", path, ErrBuiltin)
	}
	c.activities = slices.DeleteFunc(c.activities, func(candidate Activity) bool {
		return candidate.FullPath() == a.FullPath()
	})
	return a, nil
}

// Resolve looks up an activity by its exact full path.
func (c *Catalog) Resolve(path string) (Activity, error) {
	namespace, name, err := SplitPath(path)
	if err != nil {
		return Activity{}, fmt.Errorf("path %q: %w", path, err)
	}
	node, ok := c.Tree().Find(namespace)
	if !ok {
		return Activity{}, fmt.Errorf("%s: %w", path, ErrNotFound)
	}
	a, ok := node.Leaves[name]
	if !ok {
		return Activity{}, fmt.Errorf("%s: %w", path, ErrNotFound)
	}
	return a, nil
}

// ListSorted lists the whole catalog. Expanded, it contains every activity by
// full path; collapsed, the top-level categories followed by the top-level
// activities.
func (c *Catalog) ListSorted(expand bool) []Row {
	rows, _ := c.ListSortedAt("", expand)
	return rows
}

// ListSortedAt works like ListSorted below the category prefix.
func (c *Catalog) ListSortedAt(prefix string, expand bool) ([]Row, error) {
	node := c.Tree()
	prefix = strings.Trim(prefix, PathSeparator)
	if prefix != "" {
		found, ok := node.Find(strings.Split(prefix, PathSeparator))
		if !ok {
			return nil, fmt.Errorf("category %s: %w", prefix, ErrNotFound)
		}
		node = found
	}
	if expand {
		return node.expandedRows(), nil
	}
	return node.collapsedRows(), nil
}
