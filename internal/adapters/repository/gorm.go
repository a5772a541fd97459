package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/okian/mlbsim/internal/domain/roster"
	"github.com/okian/mlbsim/pkg/logger"
	"github.com/okian/mlbsim/pkg/metrics"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const defaultQueryTimeout = 30 * time.Second

// Open connects to postgres and sizes the pool.
func Open(ctx context.Context, dsn string, pool PoolConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:      gormlogger.Default.LogMode(gormlogger.Silent),
		NowFunc:     func() time.Time { return time.Now().UTC() },
		PrepareStmt: false,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	sqlDB.SetMaxIdleConns(pool.MaxIdleConns)
	sqlDB.SetMaxOpenConns(pool.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(pool.ConnMaxLifetime)

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// Migrate creates or updates the tables the loader reads.
func Migrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("migrate roster tables: %w", err)
	}
	return nil
}

// GormLoader reads rosters through gorm. It only issues SELECTs.
type GormLoader struct {
	db           *gorm.DB
	logger       logger.Logger
	queryTimeout time.Duration
}

// NewGormLoader creates a loader over db.
func NewGormLoader(db *gorm.DB, opts ...Option) *GormLoader {
	g := &GormLoader{db: db, logger: logger.Nop(), queryTimeout: defaultQueryTimeout}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// playerRow is one player joined with both stat lines.
type playerRow struct {
	TeamName     string   `gorm:"column:team_name"`
	PlayerID     int64    `gorm:"column:player_id"`
	PlayerName   string   `gorm:"column:player_name"`
	PositionName string   `gorm:"column:position_name"`
	PositionType string   `gorm:"column:position_type"`
	Avg          *float64 `gorm:"column:avg"`
	Ops          *float64 `gorm:"column:ops"`
	OpsPlus      *float64 `gorm:"column:ops_plus"`
	Hr           *float64 `gorm:"column:hr"`
	Rbi          *float64 `gorm:"column:rbi"`
	R            *float64 `gorm:"column:r"`
	H            *float64 `gorm:"column:h"`
	Obp          *float64 `gorm:"column:obp"`
	Slg          *float64 `gorm:"column:slg"`
	Era          *float64 `gorm:"column:era"`
	EraPlus      *float64 `gorm:"column:era_plus"`
	Whip         *float64 `gorm:"column:whip"`
	So           *float64 `gorm:"column:so"`
	W            *float64 `gorm:"column:w"`
	L            *float64 `gorm:"column:l"`
	Bb           *float64 `gorm:"column:bb"`
}

type recordRow struct {
	TeamID      int64 `gorm:"column:team_id"`
	RunsScored  int   `gorm:"column:runs_scored"`
	RunsAllowed int   `gorm:"column:runs_allowed"`
	GamesPlayed int   `gorm:"column:games_played"`
}

// LoadSeason implements SeasonLoader. Teams without players are included
// with an empty roster.
func (g *GormLoader) LoadSeason(ctx context.Context, season int) (roster.BaseState, error) {
	ctx, cancel := context.WithTimeout(ctx, g.queryTimeout)
	defer cancel()
	start := time.Now()
	defer func() { metrics.RecordLoaderQueryLatency(float64(time.Since(start).Milliseconds())) }()

	db := g.db.WithContext(ctx)

	var teams []Team
	if err := db.Where("season = ?", season).Order("team_name").Find(&teams).Error; err != nil {
		return nil, fmt.Errorf("load teams for season %d: %w", season, err)
	}
	state := make(roster.BaseState, len(teams))
	byID := make(map[int64]*roster.TeamRoster, len(teams))
	for _, t := range teams {
		tr := &roster.TeamRoster{Name: t.TeamName, Players: []roster.Player{}}
		state[t.TeamName] = tr
		byID[t.TeamID] = tr
	}

	var rows []playerRow
	err := db.Table("players AS p").
		Select(`t.team_name, p.player_id, p.player_name, p.position_name, p.position_type,
			phs.avg, phs.ops, phs.ops_plus, phs.hr, phs.rbi, phs.r, phs.h, phs.obp, phs.slg,
			pps.era, pps.era_plus, pps.whip, pps.so, pps.w, pps.l, pps.bb`).
		Joins("JOIN teams t ON t.team_id = p.current_team_id AND t.season = p.season").
		Joins("LEFT JOIN player_hitting_stats phs ON phs.player_id = p.player_id AND phs.season = p.season").
		Joins("LEFT JOIN player_pitching_stats pps ON pps.player_id = p.player_id AND pps.season = p.season").
		Where("p.season = ?", season).
		Order("t.team_name, p.player_name").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load players for season %d: %w", season, err)
	}
	for _, r := range rows {
		tr, ok := state[r.TeamName]
		if !ok {
			continue
		}
		tr.Add(r.player())
	}

	var records []recordRow
	err = db.Model(&GameLog{}).
		Select("team_id, SUM(team_score) AS runs_scored, SUM(opponent_score) AS runs_allowed, COUNT(*) AS games_played").
		Where("season = ?", season).
		Group("team_id").
		Scan(&records).Error
	if err != nil {
		return nil, fmt.Errorf("load game logs for season %d: %w", season, err)
	}
	for _, rec := range records {
		if tr, ok := byID[rec.TeamID]; ok {
			tr.Record.RunsScored = rec.RunsScored
			tr.Record.RunsAllowed = rec.RunsAllowed
			tr.Record.GamesPlayed = rec.GamesPlayed
		}
	}

	// Rows come newest first, so the first row seen per team is its rating.
	var elos []EloRating
	if err := db.Where("season = ?", season).Order("team_id, date DESC").Find(&elos).Error; err != nil {
		return nil, fmt.Errorf("load elo ratings for season %d: %w", season, err)
	}
	seen := make(map[int64]bool, len(teams))
	for _, e := range elos {
		if seen[e.TeamID] {
			continue
		}
		seen[e.TeamID] = true
		if tr, ok := byID[e.TeamID]; ok {
			tr.Record.Elo = e.Rating
		}
	}

	g.logger.Debug(ctx, "season rosters queried",
		logger.Int("season", season),
		logger.Int("teams", len(state)),
		logger.Int("players", len(rows)),
		logger.Duration("took", time.Since(start)))
	return state, nil
}

// LatestSeason implements SeasonLoader.
func (g *GormLoader) LatestSeason(ctx context.Context) (int, error) {
	var latest sql.NullInt64
	if err := g.db.WithContext(ctx).Model(&Team{}).Select("MAX(season)").Scan(&latest).Error; err != nil {
		return 0, fmt.Errorf("query latest season: %w", err)
	}
	if !latest.Valid {
		return 0, ErrNoSeasons
	}
	return int(latest.Int64), nil
}

func (r playerRow) player() roster.Player {
	return roster.Player{
		ID:           r.PlayerID,
		Name:         r.PlayerName,
		Position:     r.PositionName,
		PositionType: roster.PositionType(r.PositionType),
		Hitting: stats(map[string]*float64{
			"avg": r.Avg, "ops": r.Ops, "ops_plus": r.OpsPlus, "hr": r.Hr, "rbi": r.Rbi,
			"r": r.R, "h": r.H, "obp": r.Obp, "slg": r.Slg,
		}),
		Pitching: stats(map[string]*float64{
			"era": r.Era, "era_plus": r.EraPlus, "whip": r.Whip, "so": r.So,
			"w": r.W, "l": r.L, "bb": r.Bb,
		}),
	}
}

// stats keeps the non-NULL values.
func stats(in map[string]*float64) map[string]float64 {
	out := make(map[string]float64, len(in))
	for k, v := range in {
		if v != nil {
			out[k] = *v
		}
	}
	return out
}
