package characterrepo

import (
	"context"

	"gorm.io/gorm"

	"github.com/chatlab/chatlab-server/internal/domain/character"
	"github.com/chatlab/chatlab-server/internal/domain/query"
	"github.com/chatlab/chatlab-server/internal/infrastructure/database/dbschema"
	"github.com/chatlab/chatlab-server/internal/infrastructure/database/transaction"
	"github.com/chatlab/chatlab-server/internal/utils/functional"
	"github.com/chatlab/chatlab-server/internal/utils/platformerrors"
)

// CharacterGormRepository implements character.Repository using GORM.
type CharacterGormRepository struct {
	db *transaction.Database
}

var _ character.Repository = (*CharacterGormRepository)(nil)

func NewCharacterGormRepository(db *transaction.Database) character.Repository {
	return &CharacterGormRepository{db: db}
}

// Create implements character.Repository.
func (repo *CharacterGormRepository) Create(ctx context.Context, char *character.Character) (*character.Character, error) {
	model := dbschema.NewSchemaCharacter(char)
	if err := repo.getDB(ctx).Create(model).Error; err != nil {
		return nil, platformerrors.AsErrorWithUUID(ctx, platformerrors.LayerRepository, err, "failed to create character", "4e5f6a7b-8c9d-4e0f-1a2b-3c4d5e6f7a8b")
	}
	return model.EtoD(), nil
}

// FindByID implements character.Repository.
func (repo *CharacterGormRepository) FindByID(ctx context.Context, id uint) (*character.Character, error) {
	var entity dbschema.Character
	err := repo.getDB(ctx).Where("id = ?", id).First(&entity).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, platformerrors.AsErrorWithUUID(ctx, platformerrors.LayerRepository, err, "failed to find character by ID", "5f6a7b8c-9d0e-4f1a-2b3c-4d5e6f7a8b9c")
	}
	return entity.EtoD(), nil
}

// FindByIDs implements character.Repository.
func (repo *CharacterGormRepository) FindByIDs(ctx context.Context, ids []uint) ([]*character.Character, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []dbschema.Character
	if err := repo.getDB(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, platformerrors.AsErrorWithUUID(ctx, platformerrors.LayerRepository, err, "failed to find characters by IDs", "6a7b8c9d-0e1f-4a2b-3c4d-5e6f7a8b9c0d")
	}
	return functional.Map(rows, func(item dbschema.Character) *character.Character {
		return item.EtoD()
	}), nil
}

// FindByPublicID implements character.Repository.
func (repo *CharacterGormRepository) FindByPublicID(ctx context.Context, publicID string) (*character.Character, error) {
	var entity dbschema.Character
	err := repo.getDB(ctx).Where("public_id = ?", publicID).First(&entity).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, platformerrors.AsErrorWithUUID(ctx, platformerrors.LayerRepository, err, "failed to find character by public ID", "7b8c9d0e-1f2a-4b3c-4d5e-6f7a8b9c0d1e")
	}
	return entity.EtoD(), nil
}

// FindByName implements character.Repository.
func (repo *CharacterGormRepository) FindByName(ctx context.Context, name string) (*character.Character, error) {
	var entity dbschema.Character
	err := repo.getDB(ctx).Where("name = ?", name).First(&entity).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, platformerrors.AsErrorWithUUID(ctx, platformerrors.LayerRepository, err, "failed to find character by name", "8c9d0e1f-2a3b-4c4d-5e6f-7a8b9c0d1e2f")
	}
	return entity.EtoD(), nil
}

// FindByFilter implements character.Repository.
func (repo *CharacterGormRepository) FindByFilter(ctx context.Context, filter character.Filter, pagination *query.Pagination) ([]*character.Character, error) {
	db := repo.applyFilter(repo.getDB(ctx), filter)
	db = repo.applyPagination(db, pagination)

	var rows []dbschema.Character
	if err := db.Find(&rows).Error; err != nil {
		return nil, platformerrors.AsErrorWithUUID(ctx, platformerrors.LayerRepository, err, "failed to find characters", "9d0e1f2a-3b4c-4d5e-6f7a-8b9c0d1e2f3a")
	}

	return functional.Map(rows, func(item dbschema.Character) *character.Character {
		return item.EtoD()
	}), nil
}

// Update implements character.Repository.
func (repo *CharacterGormRepository) Update(ctx context.Context, char *character.Character) (*character.Character, error) {
	model := dbschema.NewSchemaCharacter(char)
	if err := repo.getDB(ctx).
		Model(&dbschema.Character{}).
		Where("id = ?", model.ID).
		Updates(map[string]any{
			"name":        model.Name,
			"role":        model.Role,
			"personality": model.Personality,
			"avatar_url":  model.AvatarURL,
			"is_active":   model.IsActive,
			"is_public":   model.IsPublic,
			"updated_at":  gorm.Expr("NOW()"),
		}).Error; err != nil {
		return nil, platformerrors.AsErrorWithUUID(ctx, platformerrors.LayerRepository, err, "failed to update character", "0e1f2a3b-4c5d-4e6f-7a8b-9c0d1e2f3a4b")
	}
	return repo.FindByID(ctx, model.ID)
}

// Delete implements character.Repository.
func (repo *CharacterGormRepository) Delete(ctx context.Context, id uint) error {
	if err := repo.getDB(ctx).Delete(&dbschema.Character{}, id).Error; err != nil {
		return platformerrors.AsErrorWithUUID(ctx, platformerrors.LayerRepository, err, "failed to delete character", "1f2a3b4c-5d6e-4f7a-8b9c-0d1e2f3a4b5c")
	}
	return nil
}

func (repo *CharacterGormRepository) getDB(ctx context.Context) *gorm.DB {
	return repo.db.GetTx(ctx).WithContext(ctx)
}

// applyFilter applies filter criteria to the query
func (repo *CharacterGormRepository) applyFilter(db *gorm.DB, filter character.Filter) *gorm.DB {
	if filter.IsActive != nil {
		db = db.Where("is_active = ?", *filter.IsActive)
	}
	if filter.VisibleToUserID != nil {
		db = db.Where("is_public = TRUE OR created_by_id = ?", *filter.VisibleToUserID)
	} else {
		db = db.Where("is_public = TRUE")
	}
	return db
}

// applyPagination applies pagination to the query
func (repo *CharacterGormRepository) applyPagination(db *gorm.DB, pagination *query.Pagination) *gorm.DB {
	if pagination == nil {
		return db.Order("created_at ASC").Limit(100)
	}

	if pagination.After != nil {
		db = db.Where("id > ?", *pagination.After)
	}
	if pagination.Offset != nil {
		db = db.Offset(*pagination.Offset)
	}

	limit := 100
	if pagination.Limit != nil && *pagination.Limit > 0 {
		limit = *pagination.Limit
	}
	db = db.Limit(limit)

	if pagination.Order == "desc" {
		db = db.Order("created_at DESC")
	} else {
		db = db.Order("created_at ASC")
	}
	return db
}
