//go:build integration

package steps

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	appdist "mediafetch/application/distribution"
	"mediafetch/domain/distribution"
	"mediafetch/domain/media"
	"mediafetch/infrastructure/drive"

	googledrive "google.golang.org/api/drive/v3"

	"github.com/cucumber/godog"
)

// uploadMockDriveService is a mock implementation for upload testing
type uploadMockDriveService struct {
	files          []*googledrive.File
	uploadedFiles  []*googledrive.File
	permissions    map[string]*googledrive.Permission
	deletedFileIDs []string
	nextFileID     int
}

func newUploadMockDriveService() *uploadMockDriveService {
	return &uploadMockDriveService{
		permissions: make(map[string]*googledrive.Permission),
		nextFileID:  1,
	}
}

func (m *uploadMockDriveService) ListFiles(ctx context.Context, query string, fields string, orderBy string) ([]*googledrive.File, error) {
	// Filter files by name if query contains "name = " (for FindFileByName support)
	if strings.Contains(query, "name = ") {
		start := strings.Index(query, "name = '") + 8
		end := strings.Index(query[start:], "'") + start
		if start > 8 && end > start {
			targetName := query[start:end]
			var result []*googledrive.File
			for _, f := range m.files {
				if f.Name == targetName {
					result = append(result, f)
				}
			}
			return result, nil
		}
	}
	return m.files, nil
}

func (m *uploadMockDriveService) GetAbout(ctx context.Context, fields string) (*googledrive.About, error) {
	return &googledrive.About{StorageQuota: &googledrive.AboutStorageQuota{}}, nil
}

func (m *uploadMockDriveService) DeleteFile(ctx context.Context, fileID string) error {
	m.deletedFileIDs = append(m.deletedFileIDs, fileID)
	return nil
}

func (m *uploadMockDriveService) UploadFile(ctx context.Context, fileName, mimeType, folderID, localPath string) (*googledrive.File, error) {
	info, err := os.Stat(localPath)
	if err != nil {
		return nil, fmt.Errorf("unable to open file: %w", err)
	}

	fileID := fmt.Sprintf("uploaded-file-%d", m.nextFileID)
	m.nextFileID++

	file := &googledrive.File{
		Id:          fileID,
		Name:        fileName,
		MimeType:    mimeType,
		Size:        info.Size(),
		WebViewLink: fmt.Sprintf("https://drive.google.com/file/d/%s/view", fileID),
	}
	m.uploadedFiles = append(m.uploadedFiles, file)
	return file, nil
}

func (m *uploadMockDriveService) CreatePermission(ctx context.Context, fileID string, permission *googledrive.Permission) error {
	m.permissions[fileID] = permission
	return nil
}

// uploadContext holds test state for upload scenarios
type uploadContext struct {
	folderID    string
	share       bool
	dir         string
	client      *drive.Client
	mockService *uploadMockDriveService
	result      *media.Result
	uploaded    []distribution.UploadResult
	err         error
}

// SharedUploadContext is reset before each scenario via Before hook
var SharedUploadContext *uploadContext

func getUploadContext() *uploadContext {
	return SharedUploadContext
}

func InitializeUploadScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		dir, err := os.MkdirTemp("", "mediafetch-upload-*")
		if err != nil {
			return c, err
		}
		SharedUploadContext = &uploadContext{
			dir:         dir,
			mockService: newUploadMockDriveService(),
		}
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if SharedUploadContext != nil {
			os.RemoveAll(SharedUploadContext.dir)
		}
		SharedUploadContext = nil
		return c, nil
	})

	ctx.Step(`^the Drive folder ID is "([^"]*)"$`, theDriveFolderIDIs)
	ctx.Step(`^valid Google Drive upload credentials$`, validGoogleDriveUploadCredentials)
	ctx.Step(`^sharing is enabled$`, sharingIsEnabled)
	ctx.Step(`^the Drive folder already contains "([^"]*)" with ID "([^"]*)"$`, theDriveFolderAlreadyContains)
	ctx.Step(`^a finished download produced "([^"]*)" and thumbnail "([^"]*)"$`, aFinishedDownloadProduced)
	ctx.Step(`^I upload the download result$`, iUploadTheDownloadResult)
	ctx.Step(`^I upload the download result with sidecars$`, iUploadTheDownloadResultWithSidecars)
	ctx.Step(`^(\d+) files? should be uploaded$`, filesShouldBeUploaded)
	ctx.Step(`^the uploaded file "([^"]*)" should be shared with anyone$`, theUploadedFileShouldBeSharedWithAnyone)
	ctx.Step(`^the file "([^"]*)" should be deleted before upload$`, theFileShouldBeDeletedBeforeUpload)
}

func theDriveFolderIDIs(folderID string) error {
	getUploadContext().folderID = folderID
	return nil
}

func validGoogleDriveUploadCredentials() error {
	u := getUploadContext()
	client, err := drive.NewClient(context.Background(), "", drive.WithDriveService(u.mockService))
	if err != nil {
		return fmt.Errorf("failed to initialize client: %v", err)
	}
	u.client = client
	return nil
}

func sharingIsEnabled() error {
	getUploadContext().share = true
	return nil
}

func theDriveFolderAlreadyContains(name, id string) error {
	u := getUploadContext()
	u.mockService.files = append(u.mockService.files, &googledrive.File{Id: id, Name: name, Size: 1})
	return nil
}

func aFinishedDownloadProduced(file, thumbnail string) error {
	u := getUploadContext()
	u.result = &media.Result{}
	for _, name := range []string{file, thumbnail} {
		path := filepath.Join(u.dir, name)
		if err := os.WriteFile(path, []byte("test content for "+name), 0o644); err != nil {
			return fmt.Errorf("failed to create test file: %v", err)
		}
		u.result.AddPath(path)
	}
	return nil
}

func uploadResult(sidecars bool) {
	u := getUploadContext()
	service := appdist.NewUploadService(u.client, u.folderID, appdist.WithSharing(u.share))
	u.uploaded, u.err = service.UploadResult(context.Background(), u.result, sidecars)
}

func iUploadTheDownloadResult() error {
	uploadResult(false)
	return nil
}

func iUploadTheDownloadResultWithSidecars() error {
	uploadResult(true)
	return nil
}

func filesShouldBeUploaded(count int) error {
	u := getUploadContext()
	if u.err != nil {
		return fmt.Errorf("expected upload to succeed, but got error: %v", u.err)
	}
	if len(u.uploaded) != count || len(u.mockService.uploadedFiles) != count {
		return fmt.Errorf("expected %d uploads, got %d", count, len(u.uploaded))
	}
	return nil
}

func theUploadedFileShouldBeSharedWithAnyone(name string) error {
	u := getUploadContext()
	for _, f := range u.mockService.uploadedFiles {
		if f.Name != name {
			continue
		}
		perm, ok := u.mockService.permissions[f.Id]
		if !ok {
			return fmt.Errorf("permission not found for file %s", f.Id)
		}
		if perm.Type != "anyone" || perm.Role != "reader" {
			return fmt.Errorf("expected anyone/reader permission, got %s/%s", perm.Type, perm.Role)
		}
		return nil
	}
	return fmt.Errorf("file %s was not uploaded", name)
}

func theFileShouldBeDeletedBeforeUpload(id string) error {
	u := getUploadContext()
	for _, deleted := range u.mockService.deletedFileIDs {
		if deleted == id {
			return nil
		}
	}
	return fmt.Errorf("expected %s to be deleted, deleted %v", id, u.mockService.deletedFileIDs)
}
