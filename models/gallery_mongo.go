package models

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoGalleryRepo struct {
	col *mongo.Collection
}

func NewMongoGalleryRepository(col *mongo.Collection) GalleryRepository {
	return &mongoGalleryRepo{col: col}
}

func (r *mongoGalleryRepo) GetAll() ([]GalleryImage, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// 最新上傳在前
	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "uploadedAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []GalleryImage
	for cur.Next(ctx) {
		var img GalleryImage
		if err := cur.Decode(&img); err != nil {
			return nil, err
		}
		out = append(out, img)
	}
	return out, cur.Err()
}

func (r *mongoGalleryRepo) GetByID(id string) (GalleryImage, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var img GalleryImage
	if err := r.col.FindOne(ctx, bson.M{"id": id}).Decode(&img); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return GalleryImage{}, ErrNotFound
		}
		return GalleryImage{}, err
	}
	return img, nil
}

func (r *mongoGalleryRepo) Create(img *GalleryImage) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err := r.col.InsertOne(ctx, img)
	return err
}

func (r *mongoGalleryRepo) Update(img *GalleryImage) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	res, err := r.col.UpdateOne(ctx, bson.M{"id": img.ID}, bson.M{"$set": img})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoGalleryRepo) Delete(id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	res, err := r.col.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
