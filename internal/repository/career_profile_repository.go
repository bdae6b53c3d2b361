package repository

import (
	"github.com/fadilmartias/career-compass/internal/model"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type CareerProfileRepository struct {
	db *gorm.DB
}

func NewCareerProfileRepository(db *gorm.DB) *CareerProfileRepository {
	return &CareerProfileRepository{db}
}

// SearchProfiles returns the topK career profiles closest to the embedding,
// using the pgvector <-> distance operator.
func (r *CareerProfileRepository) SearchProfiles(embedding pgvector.Vector, topK int) ([]model.CareerProfile, error) {
	var profiles []model.CareerProfile

	err := r.db.Raw(`
        SELECT *, embedding <-> ? AS distance
        FROM career_profiles
        ORDER BY embedding <-> ?
        LIMIT ?
    `, embedding, embedding, topK).Scan(&profiles).Error

	return profiles, err
}

func (r *CareerProfileRepository) CreateProfile(p *model.CareerProfile) error {
	return r.db.Create(p).Error
}

func (r *CareerProfileRepository) UpdateProfile(p *model.CareerProfile) error {
	return r.db.Save(p).Error
}

func (r *CareerProfileRepository) GetProfiles() ([]model.CareerProfile, error) {
	var profiles []model.CareerProfile
	err := r.db.Find(&profiles).Error
	return profiles, err
}
