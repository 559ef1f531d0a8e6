package wizard

import (
	"time"

	"kokos-intake/internal/models"
)

type LogLevel string

const (
	LogSystem  LogLevel = "system"
	LogInfo    LogLevel = "info"
	LogSuccess LogLevel = "success"
	LogWarning LogLevel = "warning"
)

const (
	msgBoot      = "İşletme doğum modülü başlatıldı"
	msgCollect   = "Çekirdek veri toplama aktif"
	msgCollected = "Tüm veriler başarıyla toplandı"
	msgSummary   = "Kurulum özeti hazırlanıyor..."
	msgSaved     = "İlerleme kaydedildi. Daha sonra devam edebilirsiniz."
	msgSkipped   = "Atlandı (Eksik)"
)

// LogEntry is one human-readable progress line.
type LogEntry struct {
	Message string    `json:"message"`
	Level   LogLevel  `json:"type"`
	Time    time.Time `json:"timestamp"`
}

// State is the complete, serialisable state of one wizard session.
type State struct {
	CurrentIndex       int                         `json:"currentIndex"`
	ConditionalIndex   *int                        `json:"conditionalIndex,omitempty"`
	Answers            models.AnswerSet            `json:"answers"`
	ConditionalAnswers models.ConditionalAnswerSet `json:"conditionalAnswers"`
	Logs               []LogEntry                  `json:"logs"`
	Complete           bool                        `json:"complete"`
	PendingInput       *models.Value               `json:"pendingInput,omitempty"`
}

func (s State) clone() State {
	out := State{
		CurrentIndex:       s.CurrentIndex,
		Answers:            s.Answers.Clone(),
		ConditionalAnswers: s.ConditionalAnswers.Clone(),
		Logs:               append([]LogEntry(nil), s.Logs...),
		Complete:           s.Complete,
	}
	if s.ConditionalIndex != nil {
		ci := *s.ConditionalIndex
		out.ConditionalIndex = &ci
	}
	if s.PendingInput != nil {
		p := *s.PendingInput
		out.PendingInput = &p
	}
	return out
}

// GroupStatus is the per-group progress shown next to the questions.
type GroupStatus struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	Icon      string `json:"icon,omitempty"`
	Answered  int    `json:"answered"`
	Total     int    `json:"total"`
	Active    bool   `json:"active"`
	Completed bool   `json:"completed"`
}
