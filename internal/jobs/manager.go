// Package jobs は非同期ジョブ管理機能を提供します。
// キャンプ場削除後のコメント一括削除を Asynq 経由で実行します。
// 元の実装のようにコールバック内で削除して失敗を握りつぶすのではなく、
// 失敗したタスクはリトライされ、結果がログに残ります。
package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/hibiken/asynq"

	"github.com/yourusername/camp-forge/internal/repositories/comments"
)

const (
	taskTypePurgeComments = "comments:purge"
	queueName             = "maintenance"
)

// PurgePayload は comments:purge タスクのペイロードです。
type PurgePayload struct {
	CampgroundID string `json:"campgroundId"`
}

// Manager はジョブの投入とワーカーの実行を担います。
type Manager struct {
	client   *asynq.Client
	server   *asynq.Server
	mux      *asynq.ServeMux
	comments comments.Repository
	logger   *log.Logger
}

// NewManager は Manager を初期化します。
func NewManager(redisURL string, commentRepo comments.Repository, logger *log.Logger) (*Manager, error) {
	if commentRepo == nil {
		return nil, errors.New("comment repository is nil")
	}
	opt, err := asynq.ParseRedisURI(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := asynq.NewClient(opt)
	server := asynq.NewServer(
		opt,
		asynq.Config{
			Concurrency: 4,
			Queues: map[string]int{
				queueName: 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	manager := &Manager{
		client:   client,
		server:   server,
		mux:      mux,
		comments: commentRepo,
		logger:   logger,
	}
	mux.HandleFunc(taskTypePurgeComments, manager.handlePurgeTask)
	return manager, nil
}

// StartWorkers は Asynq サーバーをバックグラウンドで起動します。
func (m *Manager) StartWorkers() {
	go func() {
		if err := m.server.Run(m.mux); err != nil && err != asynq.ErrServerClosed {
			if m.logger != nil {
				m.logger.Printf("asynq server stopped with error: %v", err)
			} else {
				log.Printf("asynq server stopped with error: %v", err)
			}
		}
	}()
}

// Shutdown はサーバーとクライアントを閉じます。
func (m *Manager) Shutdown(ctx context.Context) error {
	m.server.Shutdown()
	m.client.Close()
	return nil
}

// SchedulePurge はキャンプ場配下コメントの一括削除タスクを投入します。
func (m *Manager) SchedulePurge(ctx context.Context, campgroundID string) error {
	if campgroundID == "" {
		return fmt.Errorf("campgroundID is required")
	}

	body, err := json.Marshal(&PurgePayload{CampgroundID: campgroundID})
	if err != nil {
		return err
	}

	task := asynq.NewTask(taskTypePurgeComments, body, asynq.Queue(queueName))
	if _, err := m.client.EnqueueContext(ctx, task, asynq.MaxRetry(3)); err != nil {
		return fmt.Errorf("failed to enqueue purge task: %w", err)
	}
	return nil
}

func (m *Manager) handlePurgeTask(ctx context.Context, task *asynq.Task) error {
	var payload PurgePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return err
	}
	if payload.CampgroundID == "" {
		return fmt.Errorf("missing campgroundId in payload")
	}

	// 既に空の場合は 0 件の正常終了です。
	removed, err := m.comments.DeleteByCampground(ctx, payload.CampgroundID)
	if err != nil {
		return fmt.Errorf("failed to purge comments for campground %s: %w", payload.CampgroundID, err)
	}
	if m.logger != nil {
		m.logger.Printf("purged %d comments for campground %s", removed, payload.CampgroundID)
	}
	return nil
}
