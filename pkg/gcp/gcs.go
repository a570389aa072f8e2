package gcp

import (
	"context"
	"io"
	"log"
	"os"
	"path"
	"path/filepath"

	"cloud.google.com/go/storage"
)

// UploadReport uploads the report artifacts at srcPath to the bucket. A
// single file uploads as one object; a directory uploads each regular file
// in it (non-recursive). Objects are placed under prefix when one is given.
func UploadReport(ctx context.Context, bucketName, prefix, srcPath string) error {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return err
	}
	defer client.Close()
	bucket := client.Bucket(bucketName)

	info, err := os.Stat(srcPath)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return uploadObject(ctx, bucket, srcPath, path.Join(prefix, filepath.Base(srcPath)))
	}

	entries, err := os.ReadDir(srcPath)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		src := filepath.Join(srcPath, entry.Name())
		if err := uploadObject(ctx, bucket, src, path.Join(prefix, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}

func uploadObject(ctx context.Context, bucket *storage.BucketHandle, srcPath, objectName string) error {
	file, err := os.Open(srcPath)
	if err != nil {
		return err
	}
	defer file.Close()

	w := bucket.Object(objectName).NewWriter(ctx)
	if _, err := io.Copy(w, file); err != nil {
		w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	log.Printf("Uploaded %s to %s", srcPath, objectName)
	return nil
}
