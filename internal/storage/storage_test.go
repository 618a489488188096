// Package storage содержит тесты для файлового хранилища приложения.
package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestStorageSaveLoadRecipients(t *testing.T) {
	dir := t.TempDir()
	recipients := filepath.Join(dir, "recipients.json")
	faq := filepath.Join(dir, "faq.json")

	s, err := NewStorage(recipients, faq)
	if err != nil {
		t.Fatalf("NewStorage failed: %v", err)
	}

	if !s.AddRecipient(-100123, "Sales team", 42) {
		t.Fatalf("первое добавление должно вернуть true")
	}
	if s.AddRecipient(-100123, "Sales team", 42) {
		t.Fatalf("повторное добавление должно вернуть false")
	}
	s.AddRecipient(777, "owner", 777)

	// Run SaveData with timeout to detect hangs
	done := make(chan error, 1)
	go func() {
		done <- s.SaveData()
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("SaveData failed: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("SaveData timed out (possible deadlock)")
	}

	s2, err := NewStorage(recipients, faq)
	if err != nil {
		t.Fatalf("NewStorage load failed: %v", err)
	}

	ids := s2.GetChatIDs()
	if len(ids) != 2 || ids[0] != -100123 || ids[1] != 777 {
		t.Fatalf("recipients not persisted, got: %+v", ids)
	}
	if !s2.IsRecipient(777) {
		t.Fatalf("чат 777 должен быть получателем")
	}
}

func TestStorageRemoveRecipient(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStorage(filepath.Join(dir, "recipients.json"), "")
	if err != nil {
		t.Fatalf("NewStorage failed: %v", err)
	}

	s.AddRecipient(1, "a", 1)
	if !s.RemoveRecipient(1) {
		t.Fatalf("удаление существующего получателя должно вернуть true")
	}
	if s.RemoveRecipient(1) {
		t.Fatalf("повторное удаление должно вернуть false")
	}
	if len(s.GetChatIDs()) != 0 {
		t.Fatalf("список получателей должен быть пуст")
	}
}

func TestStorageSaveWithoutChangesWritesNothing(t *testing.T) {
	dir := t.TempDir()
	recipients := filepath.Join(dir, "recipients.json")

	s, err := NewStorage(recipients, "")
	if err != nil {
		t.Fatalf("NewStorage failed: %v", err)
	}
	if err := s.SaveData(); err != nil {
		t.Fatalf("SaveData failed: %v", err)
	}
	if _, err := os.Stat(recipients); !os.IsNotExist(err) {
		t.Fatalf("файл не должен создаваться без изменений, err=%v", err)
	}
}

func TestStorageFAQ(t *testing.T) {
	dir := t.TempDir()
	faq := filepath.Join(dir, "faq.json")

	s, err := NewStorage(filepath.Join(dir, "recipients.json"), faq)
	if err != nil {
		t.Fatalf("NewStorage failed: %v", err)
	}
	if _, ok := s.GetFAQItem("about"); !ok {
		t.Fatalf("без файла должен использоваться FAQ по умолчанию")
	}

	if err := os.WriteFile(faq, []byte(`{"hours":{"question":"Q","answer":"A"}}`), 0644); err != nil {
		t.Fatalf("Ошибка записи FAQ: %v", err)
	}
	s2, err := NewStorage(filepath.Join(dir, "recipients.json"), faq)
	if err != nil {
		t.Fatalf("NewStorage failed: %v", err)
	}
	items := s2.GetAllFAQItems()
	if len(items) != 1 || items["hours"].Answer != "A" {
		t.Fatalf("FAQ из файла не загружен: %+v", items)
	}
}

func TestStorageBrokenFileFails(t *testing.T) {
	dir := t.TempDir()
	recipients := filepath.Join(dir, "recipients.json")
	if err := os.WriteFile(recipients, []byte("{not json"), 0644); err != nil {
		t.Fatalf("Ошибка записи файла: %v", err)
	}

	if _, err := NewStorage(recipients, ""); err == nil {
		t.Fatalf("ожидалась ошибка разбора")
	}
}
