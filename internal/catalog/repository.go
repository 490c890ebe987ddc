package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tradelink-io/tradelink-backend/pkg/pagination"
)

const productsCollection = "products"

// ErrNotFound is returned when no document matches the lookup.
var ErrNotFound = errors.New("catalog: document not found")

// Repository persists product documents in the catalog store.
type Repository struct {
	products *mongo.Collection
}

type collectionProvider interface {
	Collection(name string) *mongo.Collection
}

// NewRepository builds a catalog repository on the provided store client.
func NewRepository(store collectionProvider) *Repository {
	return &Repository{products: store.Collection(productsCollection)}
}

// EnsureIndexes creates the unique SKU/slug indexes and the search indexes.
func (r *Repository) EnsureIndexes(ctx context.Context) error {
	_, err := r.products.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "sku", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "company_id", Value: 1}, {Key: "visibility.is_active", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "name", Value: "text"}, {Key: "description", Value: "text"}},
		},
	})
	if err != nil {
		return fmt.Errorf("create catalog indexes: %w", err)
	}
	return nil
}

// Insert writes a new product document.
func (r *Repository) Insert(ctx context.Context, doc *ProductDocument) error {
	_, err := r.products.InsertOne(ctx, doc)
	return err
}

// FindByID fetches a document regardless of its active flag.
func (r *Repository) FindByID(ctx context.Context, id string) (*ProductDocument, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// FindBySlug fetches an active document by its URL slug.
func (r *Repository) FindBySlug(ctx context.Context, slug string) (*ProductDocument, error) {
	return r.findOne(ctx, bson.M{"slug": slug, "visibility.is_active": true})
}

// FindBySKU fetches a document by its unique SKU.
func (r *Repository) FindBySKU(ctx context.Context, sku string) (*ProductDocument, error) {
	return r.findOne(ctx, bson.M{"sku": sku})
}

func (r *Repository) findOne(ctx context.Context, filter bson.M) (*ProductDocument, error) {
	var doc ProductDocument
	if err := r.products.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &doc, nil
}

// UpdateFields applies a partial $set update and returns the fresh document.
func (r *Repository) UpdateFields(ctx context.Context, id string, fields bson.M) (*ProductDocument, error) {
	fields["updated_at"] = time.Now().UTC()

	after := options.After
	res := r.products.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": fields},
		options.FindOneAndUpdate().SetReturnDocument(after),
	)

	var doc ProductDocument
	if err := res.Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &doc, nil
}

// SearchQuery carries the filter and sort inputs for a catalog search.
type SearchQuery struct {
	Text       string
	CategoryID string
	CompanyID  string
	MinPrice   *primitive.Decimal128
	MaxPrice   *primitive.Decimal128
	InStock    bool
	Tags       []string
	Region     string
	VisibleTo  string
	SortBy     string
	SortDesc   bool
	Pagination pagination.Params
}

// Search lists active documents matching the query with page/limit paging.
func (r *Repository) Search(ctx context.Context, query SearchQuery) ([]ProductDocument, int64, error) {
	filter := buildSearchFilter(query)

	total, err := r.products.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	params := query.Pagination.Normalize()
	opts := options.Find().
		SetSort(buildSearchSort(query)).
		SetSkip(int64(query.Pagination.Offset())).
		SetLimit(int64(params.Limit))

	cursor, err := r.products.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var docs []ProductDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, err
	}
	return docs, total, nil
}

func buildSearchFilter(query SearchQuery) bson.M {
	filter := bson.M{"visibility.is_active": true}

	if text := strings.TrimSpace(query.Text); text != "" {
		filter["$text"] = bson.M{"$search": text}
	}
	if query.CategoryID != "" {
		filter["category.id"] = query.CategoryID
	}
	if query.CompanyID != "" {
		filter["company_id"] = query.CompanyID
	}
	if query.MinPrice != nil || query.MaxPrice != nil {
		price := bson.M{}
		if query.MinPrice != nil {
			price["$gte"] = *query.MinPrice
		}
		if query.MaxPrice != nil {
			price["$lte"] = *query.MaxPrice
		}
		filter["pricing.base_price"] = price
	}
	if query.InStock {
		filter["inventory.available"] = bson.M{"$gt": 0}
	}
	if len(query.Tags) > 0 {
		filter["category.tags"] = bson.M{"$in": query.Tags}
	}
	if query.Region != "" {
		filter["$or"] = bson.A{
			bson.M{"visibility.regions": bson.M{"$size": 0}},
			bson.M{"visibility.regions": bson.M{"$exists": false}},
			bson.M{"visibility.regions": query.Region},
		}
	}
	if query.VisibleTo != "" {
		filter["visibility.visible_to"] = bson.M{"$in": bson.A{"all", query.VisibleTo}}
	}
	return filter
}

func buildSearchSort(query SearchQuery) bson.D {
	direction := 1
	if query.SortDesc {
		direction = -1
	}
	switch query.SortBy {
	case "price":
		return bson.D{{Key: "pricing.base_price", Value: direction}}
	case "name":
		return bson.D{{Key: "name", Value: direction}}
	case "created":
		return bson.D{{Key: "created_at", Value: direction}}
	default:
		return bson.D{{Key: "created_at", Value: -1}}
	}
}
