package userrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/chatlab/chatlab-server/internal/domain/user"
	"github.com/chatlab/chatlab-server/internal/infrastructure/database/dbschema"
	"github.com/chatlab/chatlab-server/internal/infrastructure/database/transaction"
	"github.com/chatlab/chatlab-server/internal/utils/platformerrors"
)

// UserGormRepository implements user.Repository using GORM.
type UserGormRepository struct {
	db *transaction.Database
}

var _ user.Repository = (*UserGormRepository)(nil)

func NewUserGormRepository(db *transaction.Database) user.Repository {
	return &UserGormRepository{db: db}
}

func (repo *UserGormRepository) FindByIssuerAndSubject(ctx context.Context, issuer, subject string) (*user.User, error) {
	var entity dbschema.User
	err := repo.getDB(ctx).
		Where("issuer = ? AND subject = ?", issuer, subject).
		First(&entity).
		Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to find user by issuer and subject",
			err,
			"b2a7c2d5-53b2-44a3-8f8f-927f94e9a4db",
		)
	}
	return entity.EtoD(), nil
}

func (repo *UserGormRepository) FindByID(ctx context.Context, id uint) (*user.User, error) {
	var entity dbschema.User
	err := repo.getDB(ctx).
		Where("id = ?", id).
		First(&entity).
		Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to find user by ID",
			err,
			"a9d3f8e4-21c7-4f5b-9a2e-6d8f9e1a2b3c",
		)
	}
	return entity.EtoD(), nil
}

func (repo *UserGormRepository) FindByPublicID(ctx context.Context, publicID string) (*user.User, error) {
	var entity dbschema.User
	err := repo.getDB(ctx).
		Where("public_id = ?", publicID).
		First(&entity).
		Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to find user by public ID",
			err,
			"c0e4f9a5-32d8-4a6c-8b3f-7e9f0a1b2c3d",
		)
	}
	return entity.EtoD(), nil
}

// Upsert inserts the user or refreshes identity attributes on conflict.
// The public ID and active flag are only written on first insert, so an
// existing user keeps their ID and an deactivated account is not silently
// revived by a login. Conflicts on (issuer, subject) are resolved in place;
// an email held by a different identity surfaces as a conflict error.
func (repo *UserGormRepository) Upsert(ctx context.Context, usr *user.User) (*user.User, error) {
	schemaUser := dbschema.NewSchemaUser(usr)

	assignments := map[string]any{
		"auth_provider": schemaUser.AuthProvider,
		"username":      schemaUser.Username,
		"email":         schemaUser.Email,
		"name":          schemaUser.Name,
		"picture":       schemaUser.Picture,
		"updated_at":    gorm.Expr("NOW()"),
	}

	if err := repo.getDB(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "issuer"}, {Name: "subject"}},
			DoUpdates: clause.Assignments(assignments),
		}).
		Create(schemaUser).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, platformerrors.NewError(
				ctx,
				platformerrors.LayerRepository,
				platformerrors.ErrorTypeConflict,
				"email is already registered to another account",
				err,
				"9d4e0a1b-7c2f-4e8d-b5a6-3f1c2d4e5a6b",
			)
		}
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to upsert user",
			err,
			"3b31d2bd-3260-4233-b0c8-09909fa0f154",
		)
	}

	// Retrieve the persisted user to capture ID and timestamps
	var persisted dbschema.User
	if err := repo.getDB(ctx).
		Where("issuer = ? AND subject = ?", schemaUser.Issuer, schemaUser.Subject).
		First(&persisted).Error; err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to reload upserted user",
			err,
			"f71f98cb-3154-4ad2-9076-7e58628a4098",
		)
	}

	return persisted.EtoD(), nil
}

func (repo *UserGormRepository) Update(ctx context.Context, usr *user.User) (*user.User, error) {
	schemaUser := dbschema.NewSchemaUser(usr)

	if err := repo.getDB(ctx).
		Model(&dbschema.User{}).
		Where("id = ?", schemaUser.ID).
		Updates(map[string]any{
			"name":       schemaUser.Name,
			"picture":    schemaUser.Picture,
			"is_active":  schemaUser.IsActive,
			"updated_at": gorm.Expr("NOW()"),
		}).Error; err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to update user",
			err,
			"d1f5a0b6-43e9-4b7d-9c4a-8f0a1b2c3d4e",
		)
	}

	return repo.FindByID(ctx, schemaUser.ID)
}

func (repo *UserGormRepository) getDB(ctx context.Context) *gorm.DB {
	return repo.db.GetTx(ctx).WithContext(ctx)
}
