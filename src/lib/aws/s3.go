package aws

import (
	"context"
	"fmt"
	"log"
	"os"
	"rsb/src/lib"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3UploadAsset uploads a local file and returns the public object URL. Game
// and gift images go through here; the rest of the system only ever sees the
// returned URL.
func S3UploadAsset(name string, f string, contentType string) (*string, error) {
	assetsBucket := os.Getenv("S3_ASSETS_BUCKET")
	region := os.Getenv("AWS_REGION")
	file, err := os.Open(f)
	if err != nil {
		log.Printf("Could not open file to upload: %s\n", err.Error())
		return nil, err
	}
	defer file.Close()
	client := lib.AWSGetS3Client()
	_, err = client.PutObject(context.Background(), &s3.PutObjectInput{
		Bucket:      aws.String(assetsBucket),
		Key:         aws.String(name),
		Body:        file,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		log.Printf("Error uploading asset %s: %s\n", name, err.Error())
		return nil, err
	}
	url := fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", assetsBucket, region, name)
	return &url, nil
}
