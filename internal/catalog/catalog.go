// Package catalog provides the immutable exam reference data: the topic
// syllabus with exam weights, the target exam window, and the practice
// arena content (question bank and flashcards). The data is embedded at
// build time and never mutated.
package catalog

import (
	"embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed data/*.yml
var dataFS embed.FS

// Category is one of the fixed curriculum areas a topic belongs to.
type Category string

const (
	CategoryEthics              Category = "Ethics"
	CategoryInvestmentTools     Category = "Investment Tools"
	CategoryAssetClasses        Category = "Asset Classes"
	CategoryPortfolioManagement Category = "Portfolio Management"
)

// Categories lists all curriculum categories in display order.
func Categories() []Category {
	return []Category{
		CategoryEthics,
		CategoryInvestmentTools,
		CategoryAssetClasses,
		CategoryPortfolioManagement,
	}
}

// Difficulty is the qualitative difficulty tier of a topic.
type Difficulty string

const (
	DifficultyLow    Difficulty = "Low"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHigh   Difficulty = "High"
)

// Ordinal returns the fixed sort rank of a difficulty tier (High=3,
// Medium=2, Low=1). Unknown tiers rank below Low.
func (d Difficulty) Ordinal() int {
	switch d {
	case DifficultyHigh:
		return 3
	case DifficultyMedium:
		return 2
	case DifficultyLow:
		return 1
	}
	return 0
}

// Topic is one syllabus subject area. Defined at build time, never mutated.
type Topic struct {
	ID             string     `yaml:"id"`
	Name           string     `yaml:"name"`
	Category       Category   `yaml:"category"`
	WeightMin      int        `yaml:"weight_min"`
	WeightMax      int        `yaml:"weight_max"`
	Description    string     `yaml:"description"`
	Difficulty     Difficulty `yaml:"difficulty"`
	EstimatedHours int        `yaml:"estimated_hours"`
}

// Exam holds the target exam window and registration deadlines.
type Exam struct {
	TargetDate string `yaml:"target_date"`
	Deadlines  struct {
		EarlyBird string `yaml:"early_bird"`
		Standard  string `yaml:"standard"`
	} `yaml:"deadlines"`
}

// Question is one multiple-choice practice question.
type Question struct {
	ID           string   `yaml:"id"`
	TopicID      string   `yaml:"topic_id"`
	Text         string   `yaml:"text"`
	Options      []string `yaml:"options"`
	CorrectIndex int      `yaml:"correct_index"`
	Explanation  string   `yaml:"explanation"`
}

// Flashcard is one front/back drill card.
type Flashcard struct {
	ID      string `yaml:"id"`
	TopicID string `yaml:"topic_id"`
	Front   string `yaml:"front"`
	Back    string `yaml:"back"`
}

// Catalog is the loaded reference data set.
type Catalog struct {
	Topics     []Topic
	Exam       Exam
	Questions  []Question
	Flashcards []Flashcard

	topicsByID map[string]Topic
}

type topicsFile struct {
	Exam   Exam    `yaml:"exam"`
	Topics []Topic `yaml:"topics"`
}

type practiceFile struct {
	Questions  []Question  `yaml:"questions"`
	Flashcards []Flashcard `yaml:"flashcards"`
}

// Load parses the embedded reference data.
func Load() (*Catalog, error) {
	var topics topicsFile
	if err := readEmbeddedYaml("data/topics.yml", &topics); err != nil {
		return nil, fmt.Errorf("readEmbeddedYaml(topics.yml) > %w", err)
	}

	var practice practiceFile
	if err := readEmbeddedYaml("data/practice.yml", &practice); err != nil {
		return nil, fmt.Errorf("readEmbeddedYaml(practice.yml) > %w", err)
	}

	byID := make(map[string]Topic, len(topics.Topics))
	for _, topic := range topics.Topics {
		if _, ok := byID[topic.ID]; ok {
			return nil, fmt.Errorf("duplicate topic id %q in catalog", topic.ID)
		}
		byID[topic.ID] = topic
	}

	return &Catalog{
		Topics:     topics.Topics,
		Exam:       topics.Exam,
		Questions:  practice.Questions,
		Flashcards: practice.Flashcards,
		topicsByID: byID,
	}, nil
}

func readEmbeddedYaml(path string, out any) error {
	contents, err := dataFS.ReadFile(path)
	if err != nil {
		return fmt.Errorf("dataFS.ReadFile(%s) > %w", path, err)
	}
	if err := yaml.Unmarshal(contents, out); err != nil {
		return fmt.Errorf("yaml.Unmarshal(%s) > %w", path, err)
	}
	return nil
}

// Topic looks up a topic by id.
func (c *Catalog) Topic(id string) (Topic, bool) {
	topic, ok := c.topicsByID[id]
	return topic, ok
}

// TopicIDs returns all topic ids in catalog order.
func (c *Catalog) TopicIDs() []string {
	ids := make([]string, 0, len(c.Topics))
	for _, topic := range c.Topics {
		ids = append(ids, topic.ID)
	}
	return ids
}

// TopicsInCategory returns the topics belonging to a category, in
// catalog order.
func (c *Catalog) TopicsInCategory(category Category) []Topic {
	var topics []Topic
	for _, topic := range c.Topics {
		if topic.Category == category {
			topics = append(topics, topic)
		}
	}
	return topics
}

// SortOption selects a topic listing order.
type SortOption string

const (
	SortByName       SortOption = "name"
	SortByDifficulty SortOption = "difficulty"
	SortByWeight     SortOption = "weight"
	SortByEstimated  SortOption = "estimated"
)

// FilterAll passes every topic through FilterTopics.
const FilterAll = "All"

// FilterTopics returns the topics whose difficulty tier exactly matches
// filter. FilterAll (or empty) passes everything through. The input order
// is preserved.
func FilterTopics(topics []Topic, filter string) []Topic {
	if filter == "" || filter == FilterAll {
		return append([]Topic(nil), topics...)
	}

	var filtered []Topic
	for _, topic := range topics {
		if string(topic.Difficulty) == filter {
			filtered = append(filtered, topic)
		}
	}
	return filtered
}

// SortTopics returns a sorted copy of topics. The sort is stable: topics
// that compare equal keep their relative input order. An unknown sort
// option falls back to the input order.
func SortTopics(topics []Topic, by SortOption) []Topic {
	sorted := append([]Topic(nil), topics...)

	var less func(a, b Topic) bool
	switch by {
	case SortByName:
		less = func(a, b Topic) bool { return a.Name < b.Name }
	case SortByDifficulty:
		less = func(a, b Topic) bool { return a.Difficulty.Ordinal() > b.Difficulty.Ordinal() }
	case SortByWeight:
		less = func(a, b Topic) bool { return a.WeightMax > b.WeightMax }
	case SortByEstimated:
		less = func(a, b Topic) bool { return a.EstimatedHours > b.EstimatedHours }
	default:
		return sorted
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		return less(sorted[i], sorted[j])
	})
	return sorted
}
