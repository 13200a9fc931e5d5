package content

import (
	"github.com/p-n-ai/pai-insight/internal/analytics"
	"github.com/p-n-ai/pai-insight/internal/recommender"
)

// Document is a knowledge base entry loaded from YAML.
type Document struct {
	ID         string   `yaml:"id"`
	Topic      string   `yaml:"topic"`
	Subject    string   `yaml:"subject"`
	Difficulty string   `yaml:"difficulty"`
	Keywords   []string `yaml:"keywords"`
	Content    string   `yaml:"content"`
}

// Knowledge converts the entry into the form the recommender ranks.
func (d Document) Knowledge() recommender.KnowledgeDocument {
	return recommender.KnowledgeDocument{
		ID:         d.ID,
		Topic:      d.Topic,
		Subject:    d.Subject,
		Difficulty: d.Difficulty,
		Keywords:   append([]string(nil), d.Keywords...),
		Content:    d.Content,
	}
}

// Quiz is a set of multiple-choice questions on one subject.
type Quiz struct {
	ID         string               `yaml:"id" json:"id"`
	Title      string               `yaml:"title" json:"title"`
	Subject    string               `yaml:"subject" json:"subject"`
	Difficulty analytics.Difficulty `yaml:"difficulty" json:"difficulty"`
	Questions  []Question           `yaml:"questions" json:"questions"`
}

// Question is a single multiple-choice question tagged with a topic.
type Question struct {
	ID            string   `yaml:"id" json:"id"`
	Text          string   `yaml:"text" json:"text"`
	Topic         string   `yaml:"topic" json:"topic"`
	Options       []string `yaml:"options" json:"options"`
	CorrectAnswer int      `yaml:"correct_answer" json:"-"`
}
