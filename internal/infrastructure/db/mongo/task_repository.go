package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/taskmanager/task-manager-api/internal/core/domain"
)

const collectionTasks = "tasks"

// TaskRepository implements ports.TaskRepository using MongoDB. The owner
// reference is stored as an ObjectID pointing at the users collection.
type TaskRepository struct {
	col *mongo.Collection
}

func NewTaskRepository(db *mongo.Database) *TaskRepository {
	return &TaskRepository{col: db.Collection(collectionTasks)}
}

type mongoTask struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Description string             `bson:"description"`
	Completed   bool               `bson:"completed"`
	Owner       primitive.ObjectID `bson:"owner"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

func (r *TaskRepository) Create(ctx context.Context, task *domain.Task) error {
	owner, err := primitive.ObjectIDFromHex(task.Owner)
	if err != nil {
		return fmt.Errorf("parse owner id %q: %w", task.Owner, err)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoTask{
		ID:          primitive.NewObjectID(),
		Description: task.Description,
		Completed:   task.Completed,
		Owner:       owner,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert task: %w", err)
	}

	task.ID = doc.ID.Hex()
	return nil
}

// FindByOwner returns the owner's tasks, oldest first.
func (r *TaskRepository) FindByOwner(ctx context.Context, ownerID string) ([]*domain.Task, error) {
	owner, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return []*domain.Task{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cur, err := r.col.Find(ctx, bson.M{"owner": owner}, opts)
	if err != nil {
		return nil, fmt.Errorf("find tasks: %w", err)
	}

	var docs []mongoTask
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode tasks: %w", err)
	}

	tasks := make([]*domain.Task, 0, len(docs))
	for _, d := range docs {
		tasks = append(tasks, toDomainTask(d))
	}
	return tasks, nil
}

func (r *TaskRepository) DeleteAllByOwner(ctx context.Context, ownerID string) (int64, error) {
	owner, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return 0, fmt.Errorf("parse owner id %q: %w", ownerID, err)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteMany(ctx, bson.M{"owner": owner})
	if err != nil {
		return 0, fmt.Errorf("delete tasks: %w", err)
	}
	return res.DeletedCount, nil
}

// EnsureIndexes creates the owner index used by the relation and the cascade.
func (r *TaskRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "owner", Value: 1}, {Key: "createdAt", Value: 1}},
	})
	return err
}

func toDomainTask(d mongoTask) *domain.Task {
	return &domain.Task{
		ID:          d.ID.Hex(),
		Description: d.Description,
		Completed:   d.Completed,
		Owner:       d.Owner.Hex(),
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
}
