package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/social-feed-api/internal/domain"
)

// OtpRepo manages pending one-time passwords.
// PK: email, SK: otp_id. Several codes may be outstanding for the same
// email at once (concurrent login attempts); the service layer decides
// which one is authoritative.
type OtpRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewOtpRepo(client *dynamodb.Client, tableName string) *OtpRepo {
	return &OtpRepo{client: client, tableName: tableName}
}

func (r *OtpRepo) Put(ctx context.Context, rec *domain.OtpRecord) error {
	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return fmt.Errorf("marshal otp record: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

// FindByEmailPurpose returns every pending code for (email, purpose).
// An empty slice is not an error.
func (r *OtpRepo) FindByEmailPurpose(ctx context.Context, email, purpose string) ([]domain.OtpRecord, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("email = :e"),
		FilterExpression:       aws.String("purpose = :p"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":e": &types.AttributeValueMemberS{Value: email},
			":p": &types.AttributeValueMemberS{Value: purpose},
		},
	})
	if err != nil {
		return nil, err
	}
	var records []domain.OtpRecord
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// DeleteByEmailPurpose removes every pending code for (email, purpose),
// not just the one that matched. Zero matches is not an error.
func (r *OtpRepo) DeleteByEmailPurpose(ctx context.Context, email, purpose string) error {
	records, err := r.FindByEmailPurpose(ctx, email, purpose)
	if err != nil {
		return err
	}
	for _, rec := range records {
		_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
			TableName: aws.String(r.tableName),
			Key:       compositeKey("email", rec.Email, "otp_id", rec.OtpID),
		})
		if err != nil {
			return err
		}
	}
	return nil
}
