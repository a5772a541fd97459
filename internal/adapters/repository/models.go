package repository

import "time"

// Team is a row of the teams table.
type Team struct {
	TeamID   int64  `gorm:"column:team_id;primaryKey;autoIncrement:false"`
	Season   int    `gorm:"column:season;primaryKey;autoIncrement:false"`
	TeamName string `gorm:"column:team_name;not null"`
}

func (Team) TableName() string { return "teams" }

// Player is a row of the players table.
type Player struct {
	PlayerID      int64  `gorm:"column:player_id;primaryKey;autoIncrement:false"`
	Season        int    `gorm:"column:season;primaryKey;autoIncrement:false"`
	PlayerName    string `gorm:"column:player_name;not null"`
	PositionName  string `gorm:"column:position_name"`
	PositionType  string `gorm:"column:position_type"`
	CurrentTeamID int64  `gorm:"column:current_team_id;index"`
}

func (Player) TableName() string { return "players" }

// HittingStats is a player's season hitting line. NULL means not recorded.
type HittingStats struct {
	PlayerID int64    `gorm:"column:player_id;primaryKey;autoIncrement:false"`
	Season   int      `gorm:"column:season;primaryKey;autoIncrement:false"`
	Avg      *float64 `gorm:"column:avg"`
	Ops      *float64 `gorm:"column:ops"`
	OpsPlus  *float64 `gorm:"column:ops_plus"`
	Hr       *float64 `gorm:"column:hr"`
	Rbi      *float64 `gorm:"column:rbi"`
	R        *float64 `gorm:"column:r"`
	H        *float64 `gorm:"column:h"`
	Obp      *float64 `gorm:"column:obp"`
	Slg      *float64 `gorm:"column:slg"`
}

func (HittingStats) TableName() string { return "player_hitting_stats" }

// PitchingStats is a player's season pitching line. NULL means not recorded.
type PitchingStats struct {
	PlayerID int64    `gorm:"column:player_id;primaryKey;autoIncrement:false"`
	Season   int      `gorm:"column:season;primaryKey;autoIncrement:false"`
	Era      *float64 `gorm:"column:era"`
	EraPlus  *float64 `gorm:"column:era_plus"`
	Whip     *float64 `gorm:"column:whip"`
	So       *float64 `gorm:"column:so"`
	W        *float64 `gorm:"column:w"`
	L        *float64 `gorm:"column:l"`
	Bb       *float64 `gorm:"column:bb"`
}

func (PitchingStats) TableName() string { return "player_pitching_stats" }

// GameLog is one game from a team's point of view.
type GameLog struct {
	ID            int64     `gorm:"column:id;primaryKey"`
	TeamID        int64     `gorm:"column:team_id;index:idx_game_logs_team_season"`
	Season        int       `gorm:"column:season;index:idx_game_logs_team_season"`
	GameDate      time.Time `gorm:"column:game_date"`
	TeamScore     int       `gorm:"column:team_score"`
	OpponentScore int       `gorm:"column:opponent_score"`
}

func (GameLog) TableName() string { return "team_game_logs" }

// EloRating is a team's rating as of a date.
type EloRating struct {
	ID     int64     `gorm:"column:id;primaryKey"`
	TeamID int64     `gorm:"column:team_id;index:idx_elo_team_season"`
	Season int       `gorm:"column:season;index:idx_elo_team_season"`
	Date   time.Time `gorm:"column:date"`
	Rating float64   `gorm:"column:rating"`
}

func (EloRating) TableName() string { return "team_elo_history" }

// Models lists every table the loader reads, in migration order.
func Models() []any {
	return []any{&Team{}, &Player{}, &HittingStats{}, &PitchingStats{}, &GameLog{}, &EloRating{}}
}
