package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"genesis-api/internal/domain"
)

type MongoCustomerRepository struct {
	coll *mongo.Collection
}

func NewMongoCustomerRepository(db *mongo.Database) *MongoCustomerRepository {
	return &MongoCustomerRepository{coll: db.Collection(customersCollection)}
}

func (r *MongoCustomerRepository) Create(ctx context.Context, c domain.Customer) error {
	_, err := r.coll.InsertOne(ctx, c)
	return mongoError(err)
}

func (r *MongoCustomerRepository) List(ctx context.Context) ([]domain.Customer, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, mongoError(err)
	}
	customers := make([]domain.Customer, 0)
	if err := cur.All(ctx, &customers); err != nil {
		return nil, mongoError(err)
	}
	return customers, nil
}

func (r *MongoCustomerRepository) GetByID(ctx context.Context, id string) (domain.Customer, error) {
	var c domain.Customer
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		return domain.Customer{}, mongoError(err)
	}
	return c, nil
}

func (r *MongoCustomerRepository) Update(ctx context.Context, id string, p domain.CustomerPatch, updatedAt time.Time) (domain.Customer, error) {
	set := bson.D{}
	set = setIf(set, "companyName", p.CompanyName)
	set = setIf(set, "address", p.Address)
	set = setIf(set, "phoneNumber", p.PhoneNumber)
	set = setIf(set, "email", p.Email)
	set = setIf(set, "website", p.Website)
	set = setIf(set, "kvkNumber", p.KvkNumber)
	set = setIf(set, "legalForm", p.LegalForm)
	set = setIf(set, "mainActivity", p.MainActivity)
	set = setIf(set, "sideActivities", p.SideActivities)
	set = setIf(set, "dga", p.DGA)
	set = setIf(set, "staffFTE", p.StaffFTE)
	set = setIf(set, "annualTurnover", p.AnnualTurnover)
	set = setIf(set, "grossProfit", p.GrossProfit)
	set = setIf(set, "payrollYear", p.PayrollYear)
	set = setIf(set, "description", p.Description)
	set = setIf(set, "visitDate", p.VisitDate)
	set = setIf(set, "advisor", p.Advisor)
	set = setIf(set, "visitLocation", p.VisitLocation)
	set = setIf(set, "visitFrequency", p.VisitFrequency)
	set = setIf(set, "conversationPartner", p.ConversationPartner)
	set = setIf(set, "comments", p.Comments)
	if p.Status != nil {
		set = append(set, bson.E{Key: "status", Value: string(*p.Status)})
	}
	set = append(set, bson.E{Key: "updatedAt", Value: updatedAt})

	var c domain.Customer
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, afterUpdate()).Decode(&c)
	if err != nil {
		return domain.Customer{}, mongoError(err)
	}
	return c, nil
}

func (r *MongoCustomerRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return mongoError(err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

type MongoPostRepository struct {
	coll *mongo.Collection
}

func NewMongoPostRepository(db *mongo.Database) *MongoPostRepository {
	return &MongoPostRepository{coll: db.Collection(postsCollection)}
}

func (r *MongoPostRepository) Create(ctx context.Context, p domain.Post) error {
	if p.Tags == nil {
		p.Tags = []string{}
	}
	_, err := r.coll.InsertOne(ctx, p)
	return mongoError(err)
}

func (r *MongoPostRepository) List(ctx context.Context) ([]domain.Post, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, mongoError(err)
	}
	posts := make([]domain.Post, 0)
	if err := cur.All(ctx, &posts); err != nil {
		return nil, mongoError(err)
	}
	return posts, nil
}

func (r *MongoPostRepository) GetByID(ctx context.Context, id string) (domain.Post, error) {
	var p domain.Post
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return domain.Post{}, mongoError(err)
	}
	return p, nil
}

func (r *MongoPostRepository) Update(ctx context.Context, id string, patch domain.PostPatch, updatedAt time.Time) (domain.Post, error) {
	set := bson.D{}
	set = setIf(set, "title", patch.Title)
	set = setIf(set, "content", patch.Content)
	set = setIf(set, "isPublished", patch.IsPublished)
	if patch.Tags != nil {
		tags := *patch.Tags
		if tags == nil {
			tags = []string{}
		}
		set = append(set, bson.E{Key: "tags", Value: tags})
	}
	set = append(set, bson.E{Key: "updatedAt", Value: updatedAt})

	var p domain.Post
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, afterUpdate()).Decode(&p)
	if err != nil {
		return domain.Post{}, mongoError(err)
	}
	return p, nil
}

func (r *MongoPostRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return mongoError(err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
