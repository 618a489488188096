// Package storage реализует файл-ориентированное хранилище данных бота:
// список получателей анкет и FAQ.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"surveybot/internal/models"
)

// Storage хранит получателей анкет и FAQ.
// Сами анкеты не сохраняются.
type Storage struct {
	recipients map[int64]*models.Recipient
	faq        models.FAQData
	mu         sync.RWMutex
	isDirty    bool // Флаг изменения данных

	recipientsFile string
	faqFile        string
}

// NewStorage создает новое хранилище и загружает данные из указанных файлов.
// Если файла FAQ нет, используется models.DefaultFAQ.
func NewStorage(recipientsFile, faqFile string) (*Storage, error) {
	s := &Storage{
		recipients:     make(map[int64]*models.Recipient),
		faq:            models.DefaultFAQ,
		recipientsFile: recipientsFile,
		faqFile:        faqFile,
	}

	if err := s.loadData(); err != nil {
		return nil, err
	}

	return s, nil
}

// loadData загружает данные из файлов
func (s *Storage) loadData() error {
	var recipients []*models.Recipient
	if err := s.loadJSON(s.recipientsFile, &recipients); err != nil && !os.IsNotExist(err) {
		return err
	}
	for _, r := range recipients {
		if r != nil {
			s.recipients[r.ChatID] = r
		}
	}

	if s.faqFile != "" {
		var faq models.FAQData
		if err := s.loadJSON(s.faqFile, &faq); err != nil && !os.IsNotExist(err) {
			return err
		}
		if len(faq) > 0 {
			s.faq = faq
		}
	}
	return nil
}

// SaveData сохраняет список получателей, если есть изменения.
// Осуществляет атомарную запись через временный файл.
func (s *Storage) SaveData() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isDirty {
		return nil
	}

	if err := s.saveJSON(s.recipientsFile, s.sortedRecipients()); err != nil {
		return fmt.Errorf("ошибка сохранения получателей: %w", err)
	}

	s.isDirty = false
	return nil
}

// loadJSON загружает данные из JSON файла
func (s *Storage) loadJSON(filename string, v interface{}) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// saveJSON сохраняет данные в JSON файл
func (s *Storage) saveJSON(filename string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	// Записываем в временный файл и затем переименовываем: атомарная запись
	tmp := filename + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, filename)
}

func (s *Storage) sortedRecipients() []*models.Recipient {
	out := make([]*models.Recipient, 0, len(s.recipients))
	for _, r := range s.recipients {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ChatID < out[j].ChatID })
	return out
}

// AddRecipient регистрирует чат как получателя анкет.
// Возвращает false, если чат уже зарегистрирован.
func (s *Storage) AddRecipient(chatID int64, title string, addedBy int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.recipients[chatID]; ok {
		return false
	}
	s.recipients[chatID] = &models.Recipient{
		ChatID:  chatID,
		Title:   title,
		AddedBy: addedBy,
		AddedAt: time.Now(),
	}
	s.isDirty = true
	return true
}

// RemoveRecipient удаляет чат из получателей. Возвращает false, если его не было.
func (s *Storage) RemoveRecipient(chatID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.recipients[chatID]; !ok {
		return false
	}
	delete(s.recipients, chatID)
	s.isDirty = true
	return true
}

// IsRecipient сообщает, зарегистрирован ли чат.
func (s *Storage) IsRecipient(chatID int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.recipients[chatID]
	return ok
}

// GetChatIDs возвращает идентификаторы чатов-получателей по возрастанию.
func (s *Storage) GetChatIDs() []int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]int64, 0, len(s.recipients))
	for _, r := range s.sortedRecipients() {
		result = append(result, r.ChatID)
	}
	return result
}

// GetFAQItem возвращает элемент FAQ по ключу
func (s *Storage) GetFAQItem(key string) (models.FAQItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, exists := s.faq[key]
	return item, exists
}

// GetAllFAQItems возвращает все элементы FAQ
func (s *Storage) GetAllFAQItems() models.FAQData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make(models.FAQData, len(s.faq))
	for k, v := range s.faq {
		result[k] = v
	}
	return result
}
