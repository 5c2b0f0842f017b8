package conversationrepo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/chatlab/chatlab-server/internal/domain/conversation"
	"github.com/chatlab/chatlab-server/internal/domain/query"
	"github.com/chatlab/chatlab-server/internal/infrastructure/database/dbschema"
	"github.com/chatlab/chatlab-server/internal/infrastructure/database/transaction"
	"github.com/chatlab/chatlab-server/internal/utils/functional"
	"github.com/chatlab/chatlab-server/internal/utils/platformerrors"
)

// ConversationGormRepository implements conversation.Repository using GORM.
type ConversationGormRepository struct {
	db *transaction.Database
}

var _ conversation.Repository = (*ConversationGormRepository)(nil)

func NewConversationGormRepository(db *transaction.Database) conversation.Repository {
	return &ConversationGormRepository{db: db}
}

// Create implements conversation.Repository.
func (repo *ConversationGormRepository) Create(ctx context.Context, conv *conversation.Conversation) (*conversation.Conversation, error) {
	model := dbschema.NewSchemaConversation(conv)
	if err := repo.getDB(ctx).Create(model).Error; err != nil {
		return nil, platformerrors.AsErrorWithUUID(ctx, platformerrors.LayerRepository, err, "failed to create conversation", "2a3b4c5d-6e7f-4a8b-9c0d-1e2f3a4b5c6d")
	}
	return model.EtoD(), nil
}

// FindByID implements conversation.Repository.
func (repo *ConversationGormRepository) FindByID(ctx context.Context, id uint) (*conversation.Conversation, error) {
	var entity dbschema.Conversation
	err := repo.getDB(ctx).Where("id = ?", id).First(&entity).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, platformerrors.AsErrorWithUUID(ctx, platformerrors.LayerRepository, err, "failed to find conversation by ID", "3b4c5d6e-7f8a-4b9c-0d1e-2f3a4b5c6d7e")
	}
	return entity.EtoD(), nil
}

// FindByPublicID implements conversation.Repository.
func (repo *ConversationGormRepository) FindByPublicID(ctx context.Context, publicID string) (*conversation.Conversation, error) {
	var entity dbschema.Conversation
	err := repo.getDB(ctx).Where("public_id = ?", publicID).First(&entity).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, platformerrors.AsErrorWithUUID(ctx, platformerrors.LayerRepository, err, "failed to find conversation by public ID", "4c5d6e7f-8a9b-4c0d-1e2f-3a4b5c6d7e8f")
	}
	return entity.EtoD(), nil
}

// FindByFilter implements conversation.Repository.
func (repo *ConversationGormRepository) FindByFilter(ctx context.Context, filter conversation.Filter, pagination *query.Pagination) ([]*conversation.Conversation, error) {
	db := repo.getDB(ctx)
	if filter.UserID != nil {
		db = db.Where("user_id = ?", *filter.UserID)
	}
	db = repo.applyPagination(db, pagination)

	var rows []dbschema.Conversation
	if err := db.Find(&rows).Error; err != nil {
		return nil, platformerrors.AsErrorWithUUID(ctx, platformerrors.LayerRepository, err, "failed to find conversations", "5d6e7f8a-9b0c-4d1e-2f3a-4b5c6d7e8f9a")
	}

	return functional.Map(rows, func(item dbschema.Conversation) *conversation.Conversation {
		return item.EtoD()
	}), nil
}

// Update implements conversation.Repository.
func (repo *ConversationGormRepository) Update(ctx context.Context, conv *conversation.Conversation) (*conversation.Conversation, error) {
	model := dbschema.NewSchemaConversation(conv)
	if err := repo.getDB(ctx).
		Model(&dbschema.Conversation{}).
		Where("id = ?", model.ID).
		Updates(map[string]any{
			"title":           model.Title,
			"participant_ids": model.ParticipantIDs,
			"is_autonomous":   model.IsAutonomous,
			"updated_at":      gorm.Expr("NOW()"),
		}).Error; err != nil {
		return nil, platformerrors.AsErrorWithUUID(ctx, platformerrors.LayerRepository, err, "failed to update conversation", "6e7f8a9b-0c1d-4e2f-3a4b-5c6d7e8f9a0b")
	}
	return repo.FindByID(ctx, model.ID)
}

// Delete implements conversation.Repository. Messages go first so the
// delete also works without the cascading foreign key in place.
func (repo *ConversationGormRepository) Delete(ctx context.Context, id uint) error {
	err := repo.db.RunInTransaction(ctx, func(txCtx context.Context) error {
		tx := repo.getDB(txCtx)
		if err := tx.Where("conversation_id = ?", id).Delete(&dbschema.Message{}).Error; err != nil {
			return err
		}
		return tx.Delete(&dbschema.Conversation{}, id).Error
	})
	if err != nil {
		return platformerrors.AsErrorWithUUID(ctx, platformerrors.LayerRepository, err, "failed to delete conversation", "7f8a9b0c-1d2e-4f3a-4b5c-6d7e8f9a0b1c")
	}
	return nil
}

// AppendMessage implements conversation.Repository. The conversation row is
// locked for the duration of the transaction so the turn number read and
// the insert are atomic under concurrent appends. The unique index on
// (conversation_id, turn_number) backstops the lock.
func (repo *ConversationGormRepository) AppendMessage(ctx context.Context, conversationID uint, msg *conversation.Message) (*conversation.Message, error) {
	model := dbschema.NewSchemaMessage(msg)

	err := repo.db.RunInTransaction(ctx, func(txCtx context.Context) error {
		tx := repo.getDB(txCtx)

		var conv dbschema.Conversation
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", conversationID).
			First(&conv).Error; err != nil {
			return err
		}

		var maxTurn int
		if err := tx.Model(&dbschema.Message{}).
			Where("conversation_id = ?", conversationID).
			Select("COALESCE(MAX(turn_number), 0)").
			Scan(&maxTurn).Error; err != nil {
			return err
		}

		model.ConversationID = conversationID
		model.TurnNumber = maxTurn + 1
		if err := tx.Create(model).Error; err != nil {
			return err
		}

		return tx.Model(&dbschema.Conversation{}).
			Where("id = ?", conversationID).
			Updates(map[string]any{
				"current_turn": model.TurnNumber,
				"updated_at":   gorm.Expr("NOW()"),
			}).Error
	})
	if err != nil {
		return nil, platformerrors.AsErrorWithUUID(ctx, platformerrors.LayerRepository, err, "failed to append message", "8a9b0c1d-2e3f-4a4b-5c6d-7e8f9a0b1c2d")
	}

	return model.EtoD(), nil
}

// FindMessages implements conversation.Repository. Messages come back in
// turn order. A limit of zero or less returns all messages.
func (repo *ConversationGormRepository) FindMessages(ctx context.Context, conversationID uint, limit int) ([]*conversation.Message, error) {
	db := repo.getDB(ctx).
		Where("conversation_id = ?", conversationID).
		Order("turn_number ASC")
	if limit > 0 {
		db = db.Limit(limit)
	}

	var rows []dbschema.Message
	if err := db.Find(&rows).Error; err != nil {
		return nil, platformerrors.AsErrorWithUUID(ctx, platformerrors.LayerRepository, err, "failed to find messages", "9b0c1d2e-3f4a-4b5c-6d7e-8f9a0b1c2d3e")
	}

	return functional.Map(rows, func(item dbschema.Message) *conversation.Message {
		return item.EtoD()
	}), nil
}

func (repo *ConversationGormRepository) getDB(ctx context.Context) *gorm.DB {
	return repo.db.GetTx(ctx).WithContext(ctx)
}

// applyPagination applies pagination to the query
func (repo *ConversationGormRepository) applyPagination(db *gorm.DB, pagination *query.Pagination) *gorm.DB {
	if pagination == nil {
		return db.Order("updated_at DESC").Limit(20)
	}

	if pagination.After != nil {
		db = db.Where("id > ?", *pagination.After)
	}
	if pagination.Offset != nil {
		db = db.Offset(*pagination.Offset)
	}

	limit := 20
	if pagination.Limit != nil && *pagination.Limit > 0 {
		limit = *pagination.Limit
	}
	db = db.Limit(limit)

	if pagination.Order == "asc" {
		db = db.Order("updated_at ASC")
	} else {
		db = db.Order("updated_at DESC")
	}
	return db
}
