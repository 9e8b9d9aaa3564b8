package export

import (
	"bytes"
	"context"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	loomerrors "github.com/vango-dev/loom/internal/errors"
)

// File is one exported artifact. Name is slash-separated and relative.
type File struct {
	Name        string
	Data        []byte
	ContentType string
}

// Target receives exported files.
type Target interface {
	Put(ctx context.Context, f File) error
	String() string
}

// Export writes files to target, stopping at the first failure.
func Export(ctx context.Context, target Target, files ...File) error {
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		if f.ContentType == "" {
			f.ContentType = ContentType(f.Name)
		}
		if err := target.Put(ctx, f); err != nil {
			return loomerrors.New(loomerrors.CodeExportFailed).
				WithDetailf("%s to %s", f.Name, target).
				Wrap(err)
		}
	}
	return nil
}

// ContentType guesses a MIME type from the file extension.
func ContentType(name string) string {
	if t := mime.TypeByExtension(path.Ext(name)); t != "" {
		return t
	}
	return "application/octet-stream"
}

// Dir writes files under Root.
type Dir struct {
	Root string
}

// Put implements Target.
func (d Dir) Put(_ context.Context, f File) error {
	name := path.Clean("/" + f.Name)[1:]
	dst := filepath.Join(d.Root, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	return os.WriteFile(dst, f.Data, 0o644)
}

func (d Dir) String() string { return d.Root }

// PutObjectAPI is the slice of *s3.Client the exporter uses.
type PutObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Bucket uploads files to an S3 bucket under Prefix.
type Bucket struct {
	client PutObjectAPI
	name   string
	prefix string
}

// NewBucket creates a Bucket target.
//
//	client := export.NewS3Client("eu-west-1")
//	target := export.NewBucket(client, "my-site", "preview/")
func NewBucket(client PutObjectAPI, name, prefix string) *Bucket {
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &Bucket{client: client, name: name, prefix: prefix}
}

// Put implements Target.
func (b *Bucket) Put(ctx context.Context, f File) error {
	_, err := b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(b.name),
		Key:         aws.String(b.Key(f.Name)),
		Body:        bytes.NewReader(f.Data),
		ContentType: aws.String(f.ContentType),
	})
	return err
}

// Key returns the object key for name.
func (b *Bucket) Key(name string) string {
	return b.prefix + strings.TrimPrefix(name, "/")
}

func (b *Bucket) String() string { return "s3://" + b.name + "/" + b.prefix }

// NewS3Client creates a client for region using the standard AWS_*
// credential variables.
func NewS3Client(region string) *s3.Client {
	return s3.New(s3.Options{
		Region:      region,
		Credentials: aws.NewCredentialsCache(aws.CredentialsProviderFunc(envCredentials)),
	})
}

func envCredentials(context.Context) (aws.Credentials, error) {
	creds := aws.Credentials{
		AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
		SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
		Source:          "environment",
	}
	if creds.AccessKeyID == "" || creds.SecretAccessKey == "" {
		return aws.Credentials{}, loomerrors.New(loomerrors.CodeExportFailed).
			WithDetail("AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY must be set")
	}
	return creds, nil
}
