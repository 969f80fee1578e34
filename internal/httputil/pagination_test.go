package httputil_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/httputil"
)

func TestParsePagination(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name          string
		url           string
		expectedPage  int
		expectedLimit int
		expectError   bool
		errorMsg      string
	}{
		{
			name:          "default values",
			url:           "/",
			expectedPage:  1,
			expectedLimit: 50,
			expectError:   false,
		},
		{
			name:          "valid custom values",
			url:           "/?page=3&limit=20",
			expectedPage:  3,
			expectedLimit: 20,
			expectError:   false,
		},
		{
			name:          "max limit",
			url:           "/?limit=100",
			expectedPage:  1,
			expectedLimit: 100,
			expectError:   false,
		},
		{
			name:        "page zero",
			url:         "/?page=0",
			expectError: true,
			errorMsg:    "invalid page parameter: must be a positive integer",
		},
		{
			name:        "page negative",
			url:         "/?page=-1",
			expectError: true,
			errorMsg:    "invalid page parameter: must be a positive integer",
		},
		{
			name:        "page not an integer",
			url:         "/?page=abc",
			expectError: true,
			errorMsg:    "invalid page parameter: must be a positive integer",
		},
		{
			name:        "limit zero",
			url:         "/?limit=0",
			expectError: true,
			errorMsg:    "invalid limit parameter: must be between 1 and 100",
		},
		{
			name:        "limit exceeds max",
			url:         "/?limit=101",
			expectError: true,
			errorMsg:    "invalid limit parameter: must be between 1 and 100",
		},
		{
			name:        "limit not an integer",
			url:         "/?limit=xyz",
			expectError: true,
			errorMsg:    "invalid limit parameter: must be between 1 and 100",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			req, _ := http.NewRequest(http.MethodGet, tt.url, nil)
			c.Request = req

			page, limit, err := httputil.ParsePagination(c)

			if tt.expectError {
				assert.Error(t, err)
				assert.Equal(t, tt.errorMsg, err.Error())
				// Check that values are 0 on error
				assert.Equal(t, 0, page)
				assert.Equal(t, 0, limit)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedPage, page)
				assert.Equal(t, tt.expectedLimit, limit)
			}
		})
	}
}
