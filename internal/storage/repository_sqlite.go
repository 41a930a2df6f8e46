package storage

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type sqliteRepository struct {
	db *gorm.DB
}

func NewSQLiteRepository(db *gorm.DB) Repository {
	return &sqliteRepository{db: db}
}

func (r *sqliteRepository) CreateBattle(rec *BattleRecord) error {
	return r.db.Create(rec).Error
}

func (r *sqliteRepository) GetBattleByID(id string) (*BattleRecord, error) {
	var rec BattleRecord
	if err := r.db.First(&rec, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *sqliteRepository) FindBattleByJoinCode(code string) (*BattleRecord, error) {
	var rec BattleRecord
	if err := r.db.Where("join_code = ?", code).First(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *sqliteRepository) UpdateBattle(rec *BattleRecord) error {
	return r.db.Save(rec).Error
}

func (r *sqliteRepository) GetOpenBattles() ([]BattleRecord, error) {
	var recs []BattleRecord
	fiveMinutesAgo := time.Now().Add(-5 * time.Minute)
	err := r.db.
		Where("status = ? AND private = ? AND created_at > ?", "waiting_for_players", false, fiveMinutesAgo).
		Order("created_at desc").
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	return recs, nil
}

func (r *sqliteRepository) FindTimedOutBattles(now time.Time) ([]BattleRecord, error) {
	var recs []BattleRecord
	err := r.db.
		Where("status = ? AND action_deadline IS NOT NULL AND action_deadline <= ?", "active", now).
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	return recs, nil
}

func (r *sqliteRepository) UpsertPlayer(id, name string) error {
	p := PlayerProfile{ID: id, Name: name}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "updated_at"}),
	}).Create(&p).Error
}

func (r *sqliteRepository) GetPlayerByID(id string) (*PlayerProfile, error) {
	var p PlayerProfile
	if err := r.db.First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *sqliteRepository) UpdateStatsOnBattleEnd(rec *BattleRecord) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, playerID := range []string{rec.HostID, rec.GuestID} {
			if playerID == "" {
				continue
			}
			var p PlayerProfile
			if err := tx.First(&p, "id = ?", playerID).Error; err != nil {
				return err
			}
			p.BattlesPlayed++
			switch {
			case rec.WinnerID == "":
				p.Draws++
			case rec.WinnerID == playerID:
				p.Wins++
			default:
				p.Losses++
				if rec.EndReason == "surrender" {
					p.Surrenders++
				}
			}
			if err := tx.Save(&p).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *sqliteRepository) GetTopPlayers(limit int) ([]PlayerProfile, error) {
	if limit <= 0 {
		limit = 10
	}
	var players []PlayerProfile
	err := r.db.
		Where("battles_played > 0").
		Order("wins desc, battles_played asc").
		Limit(limit).
		Find(&players).Error
	if err != nil {
		return nil, err
	}
	return players, nil
}
