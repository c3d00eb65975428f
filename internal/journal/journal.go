// Package journal persists match sessions and the decisions taken in them
// to SQLite, for offline comparison of evaluator and search settings.
package journal

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Models lists every table the journal owns.
var Models = []interface{}{
	&Session{},
	&Decision{},
}

// Session is one headless or viewer run.
type Session struct {
	ID           string     `json:"id" gorm:"primaryKey;size:36"`
	StartedAt    time.Time  `json:"startedAt" gorm:"index"`
	FinishedAt   *time.Time `json:"finishedAt"`
	Scenario     string     `json:"scenario" gorm:"size:64;index"`
	Seed         int64      `json:"seed"`
	Evaluator    string     `json:"evaluator" gorm:"size:32"`
	Cycles       int        `json:"cycles"`
	GoalsFor     int        `json:"goalsFor"`
	GoalsAgainst int        `json:"goalsAgainst"`
}

func (*Session) TableName() string {
	return "sessions"
}

// Decision is one action chosen by one player in one cycle.
type Decision struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	SessionID string `json:"sessionId" gorm:"size:36;index:idx_decision_session_cycle"`
	Cycle     int    `json:"cycle" gorm:"index:idx_decision_session_cycle"`
	Player    string `json:"player" gorm:"size:8"`

	Kind   string  `json:"kind" gorm:"size:16;index"` // chain action kind, "tackle" or "intercept"
	Action string  `json:"action" gorm:"size:255"`
	Score  float64 `json:"score"`
	Depth  int     `json:"depth"`

	Evaluations int   `json:"evaluations"`
	Expanded    int   `json:"expanded"`
	ElapsedUs   int64 `json:"elapsedUs"`
	Exhausted   bool  `json:"exhausted"`

	BallX       float64 `json:"ballX"`
	BallY       float64 `json:"ballY"`
	Probability float64 `json:"probability"` // tackle plans only

	// Chain lists the labels of the chosen chain, first action first.
	Chain datatypes.JSON `json:"chain"`
}

func (*Decision) TableName() string {
	return "decisions"
}

// BeforeCreate stores an empty chain as [] rather than NULL.
func (d *Decision) BeforeCreate(*gorm.DB) error {
	if len(d.Chain) == 0 {
		d.Chain = datatypes.JSON("[]")
	}
	return nil
}

// ChainJSON encodes chain labels for Decision.Chain.
func ChainJSON(labels []string) datatypes.JSON {
	if len(labels) == 0 {
		return datatypes.JSON("[]")
	}
	b, err := json.Marshal(labels)
	if err != nil {
		return datatypes.JSON("[]")
	}
	return datatypes.JSON(b)
}

// ChainLabels decodes Chain.
func (d *Decision) ChainLabels() ([]string, error) {
	var labels []string
	if len(d.Chain) == 0 {
		return labels, nil
	}
	if err := json.Unmarshal(d.Chain, &labels); err != nil {
		return nil, fmt.Errorf("failed to decode chain of decision %d: %w", d.ID, err)
	}
	return labels, nil
}

// KindCount is one row of Journal.KindCounts.
type KindCount struct {
	Kind  string
	Count int64
}

// Journal is a handle on the journal database.
type Journal struct {
	db  *gorm.DB
	log zerolog.Logger
}

// Open opens (creating if needed) the journal at path and migrates the
// schema. An empty path opens a private in-memory database.
func Open(path string, log zerolog.Logger) (*Journal, error) {
	dsn := path
	if path == "" {
		dsn = "file::memory:"
	}
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		CreateBatchSize:        500,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open journal %q: %w", path, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access sql interface: %w", err)
	}
	if path == "" {
		// every pooled connection would get its own empty memory database
		sqlDB.SetMaxOpenConns(1)
	}
	if err := db.AutoMigrate(Models...); err != nil {
		return nil, fmt.Errorf("failed to migrate journal: %w", err)
	}
	if path == "" {
		log.Debug().Msg("journal in memory")
	} else {
		log.Info().Str("path", path).Msg("journal opened")
	}
	return &Journal{db: db, log: log}, nil
}

// Close closes the underlying connection pool.
func (j *Journal) Close() error {
	sqlDB, err := j.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// StartSession creates a session with a fresh id.
func (j *Journal) StartSession(scenario string, seed int64, evaluator string) (*Session, error) {
	s := &Session{
		ID:        uuid.NewString(),
		StartedAt: time.Now().UTC(),
		Scenario:  scenario,
		Seed:      seed,
		Evaluator: evaluator,
	}
	if err := j.db.Create(s).Error; err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	j.log.Debug().Str("session", s.ID).Str("scenario", scenario).Msg("session started")
	return s, nil
}

// FinishSession stamps the end of a session with its final counters.
func (j *Journal) FinishSession(id string, cycles, goalsFor, goalsAgainst int) error {
	now := time.Now().UTC()
	res := j.db.Model(&Session{}).Where("id = ?", id).Updates(map[string]interface{}{
		"finished_at":   now,
		"cycles":        cycles,
		"goals_for":     goalsFor,
		"goals_against": goalsAgainst,
	})
	if res.Error != nil {
		return fmt.Errorf("failed to finish session %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("session %s not found", id)
	}
	return nil
}

// Session loads a session by id.
func (j *Journal) Session(id string) (*Session, error) {
	var s Session
	if err := j.db.First(&s, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("session %s not found", id)
		}
		return nil, err
	}
	return &s, nil
}

// recordBatchSize keeps each insert under sqlite's bound-variable limit.
const recordBatchSize = 500

// Record stores decisions. Every decision must carry a session id.
func (j *Journal) Record(decisions ...Decision) error {
	if len(decisions) == 0 {
		return nil
	}
	for i := range decisions {
		if decisions[i].SessionID == "" {
			return fmt.Errorf("decision %d has no session", i)
		}
	}
	if err := j.db.CreateInBatches(&decisions, recordBatchSize).Error; err != nil {
		return fmt.Errorf("failed to record %d decisions: %w", len(decisions), err)
	}
	return nil
}

// Decisions returns a session's decisions in cycle order.
func (j *Journal) Decisions(sessionID string) ([]Decision, error) {
	var out []Decision
	err := j.db.Where("session_id = ?", sessionID).Order("cycle, id").Find(&out).Error
	return out, err
}

// KindCounts tallies a session's decisions by kind, most frequent first.
func (j *Journal) KindCounts(sessionID string) ([]KindCount, error) {
	var out []KindCount
	err := j.db.Model(&Decision{}).
		Select("kind, count(*) as count").
		Where("session_id = ?", sessionID).
		Group("kind").
		Order("count desc, kind").
		Scan(&out).Error
	return out, err
}
