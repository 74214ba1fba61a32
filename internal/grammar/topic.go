package grammar

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Topic is a named grammar area exercises are drawn from.
type Topic struct {
	ID          string `yaml:"id" json:"id"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
	Icon        string `yaml:"icon" json:"icon"`
	Color       string `yaml:"color" json:"color"`
}

//go:embed topics.yaml
var topicsYAML []byte

type catalogFile struct {
	Topics []Topic `yaml:"topics"`
}

// Catalog is the ordered, immutable set of topics.
type Catalog struct {
	topics []Topic
	byID   map[string]int
}

// catalog is the package-level default catalog, set by init().
var catalog *Catalog

func init() {
	c, err := ParseCatalog(topicsYAML)
	if err != nil {
		panic(fmt.Sprintf("grammar: embedded topic catalog: %v", err))
	}
	catalog = c
}

// ParseCatalog decodes and validates a YAML topic catalog.
func ParseCatalog(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if len(f.Topics) == 0 {
		return nil, fmt.Errorf("catalog has no topics")
	}

	c := &Catalog{
		topics: f.Topics,
		byID:   make(map[string]int, len(f.Topics)),
	}
	for i, t := range f.Topics {
		if t.ID == "" {
			return nil, fmt.Errorf("topic %d: empty id", i)
		}
		if t.Name == "" {
			return nil, fmt.Errorf("topic %q: empty name", t.ID)
		}
		if _, dup := c.byID[t.ID]; dup {
			return nil, fmt.Errorf("duplicate topic id %q", t.ID)
		}
		c.byID[t.ID] = i
	}
	return c, nil
}

// Topics returns the topics in display order.
func (c *Catalog) Topics() []Topic {
	out := make([]Topic, len(c.topics))
	copy(out, c.topics)
	return out
}

// Topic looks up a topic by ID.
func (c *Catalog) Topic(id string) (Topic, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Topic{}, false
	}
	return c.topics[i], true
}

// Len returns the number of topics.
func (c *Catalog) Len() int { return len(c.topics) }

// AllTopics returns the default catalog's topics in display order.
func AllTopics() []Topic { return catalog.Topics() }

// GetTopic looks up a topic in the default catalog.
func GetTopic(id string) (Topic, bool) { return catalog.Topic(id) }

// DefaultCatalog returns the embedded catalog.
func DefaultCatalog() *Catalog { return catalog }
