// Package i18n provides translations for user-facing strings.
package i18n

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/YatoVoid/Macro-Tool/pkg/utils"
)

// Supported languages
const (
	LangZH = "zh"
	LangEN = "en"
)

var (
	currentLang  = LangEN // Default language is English
	translations = make(map[string]map[string]string)
	mutex        sync.RWMutex
)

func init() {
	if err := loadTranslations(); err != nil {
		fmt.Printf("Failed to load translation files: %v\n", err)
	}
}

// Load translation files, seeding defaults for any missing keys
func loadTranslations() error {
	i18nDir := filepath.Join(utils.GetConfigDir(), "i18n")

	if err := os.MkdirAll(i18nDir, 0755); err != nil {
		return err
	}

	zhTranslations, err := loadAndUpdateTranslation(filepath.Join(i18nDir, "zh.json"), getDefaultZHTranslations())
	if err != nil {
		return err
	}

	enTranslations, err := loadAndUpdateTranslation(filepath.Join(i18nDir, "en.json"), getDefaultENTranslations())
	if err != nil {
		return err
	}

	mutex.Lock()
	translations[LangZH] = zhTranslations
	translations[LangEN] = enTranslations
	mutex.Unlock()

	return nil
}

// Load and update translation file
func loadAndUpdateTranslation(path string, defaultTranslations map[string]string) (map[string]string, error) {
	var trans map[string]string
	var updated bool

	if _, err := os.Stat(path); os.IsNotExist(err) {
		trans = defaultTranslations
		updated = true
	} else {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(data, &trans); err != nil {
			return nil, err
		}
		for key, value := range defaultTranslations {
			if _, exists := trans[key]; !exists {
				trans[key] = value
				updated = true
			}
		}
	}

	if updated {
		data, err := json.MarshalIndent(trans, "", "  ")
		if err != nil {
			return nil, err
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return nil, err
		}
	}

	return trans, nil
}

// SetLanguage switches the active language.
func SetLanguage(lang string) {
	if lang != LangZH && lang != LangEN {
		return
	}
	mutex.Lock()
	currentLang = lang
	mutex.Unlock()
}

// GetCurrentLanguage returns the active language code.
func GetCurrentLanguage() string {
	mutex.RLock()
	defer mutex.RUnlock()
	return currentLang
}

// Get translation text by key
func T(key string) string {
	mutex.RLock()
	defer mutex.RUnlock()

	if trans, ok := translations[currentLang]; ok {
		if text, ok := trans[key]; ok {
			return text
		}
	}

	// Fall back to English if current language has no entry
	if currentLang != LangEN {
		if trans, ok := translations[LangEN]; ok {
			if text, ok := trans[key]; ok {
				return text
			}
		}
	}

	return key
}

// Get formatted translation text
func Tf(key string, args ...interface{}) string {
	text := T(key)
	result := fmt.Sprintf(text, args...)
	if strings.Contains(result, "%!(EXTRA") || strings.Contains(result, "%!(MISSING") {
		return fmt.Sprintf("%s: %v", text, args)
	}
	return result
}

func getDefaultENTranslations() map[string]string {
	return map[string]string{
		// GUI common
		"app_title": "Macro Tool",
		"save":      "Save",
		"cancel":    "Cancel",
		"close":     "Close",
		"confirm":   "OK",
		"remove":    "Remove",

		// Modes
		"mode_single":   "Single Click",
		"mode_multi":    "Multi Click",
		"mode_recorded": "Record",

		// Main window
		"start":           "Start",
		"stop":            "Stop",
		"settings":        "Settings",
		"save_macro":      "Save Macro",
		"load_macro":      "Load Macro",
		"mouse_position":  "Mouse: %d, %d",
		"status_idle":     "Idle",
		"status_running":  "Running...",
		"status_record":   "Recording...",
		"add_action":      "+ Add Action",
		"set_position":    "Set Position (Enter)",
		"position_set":    "Captured: %d, %d",
		"delay_ms":        "Delay (ms)",
		"click_type":      "Click",
		"key_placeholder": "key",

		// Record page
		"record_hint":        "Press Record to begin. Press Enter (or the stop hotkey) to stop recording.",
		"record_start":       "Record",
		"record_stop":        "Stop Recording",
		"record_done":        "Recording finished: %d actions",
		"record_failed":      "Recording failed: %v",
		"record_partial":     "Capture interrupted, kept %d actions",
		"no_recording":       "No recorded events to play.",
		"recorded_truncated": "Recording was interrupted; partial macro kept.",

		// Playback
		"playback_finished": "Playback finished",
		"playback_stopped":  "Playback stopped",
		"playback_failed":   "Playback failed: %v",
		"no_position":       "No position set. Use 'Set Position' first.",
		"no_actions":        "Add at least one action.",
		"no_macro":          "No macro selected.",

		// Settings dialog
		"hotkey_settings": "Hotkey Settings",
		"start_hotkey":    "Start hotkey (example: F9 or ctrl+F9):",
		"stop_hotkey":     "Stop hotkey (example: F10):",
		"record_hotkey":   "Record hotkey (example: F8):",
		"speed":           "Replay speed",
		"language":        "Language",
		"platform":        "Platform",
		"hotkeys_saved":   "Hotkeys saved: start %s, stop %s, record %s",
		"hotkeys_invalid": "Invalid hotkeys: %v",
		"settings_busy":   "Stop the current run before changing settings.",

		// Persistence
		"macro_saved":       "Macro saved: %s",
		"macro_save_failed": "Failed to save macro: %v",
		"macro_load_failed": "Failed to load macro: %v",
		"macro_loaded":      "Macro loaded: %s",
		"macro_name":        "Macro name",

		// Errors
		"capture_unavailable": "Input capture is unavailable on this system.",
		"engine_start_failed": "Failed to start engine: %v",

		// Headless mode
		"executing_macro": "Executing macro: %s",
		"macro_actions":   "Actions: %d",
	}
}

func getDefaultZHTranslations() map[string]string {
	return map[string]string{
		// GUI通用
		"app_title": "宏工具",
		"save":      "保存",
		"cancel":    "取消",
		"close":     "关闭",
		"confirm":   "确定",
		"remove":    "移除",

		// 模式
		"mode_single":   "单点连点",
		"mode_multi":    "多点连点",
		"mode_recorded": "录制",

		// 主界面
		"start":           "开始",
		"stop":            "停止",
		"settings":        "设置",
		"save_macro":      "保存宏",
		"load_macro":      "加载宏",
		"mouse_position":  "鼠标: %d, %d",
		"status_idle":     "空闲",
		"status_running":  "运行中...",
		"status_record":   "录制中...",
		"add_action":      "+ 添加操作",
		"set_position":    "设置坐标 (回车)",
		"position_set":    "已捕获: %d, %d",
		"delay_ms":        "延迟 (毫秒)",
		"click_type":      "点击",
		"key_placeholder": "按键",

		// 录制页面
		"record_hint":        "点击录制开始。按回车（或停止热键）结束录制。",
		"record_start":       "录制",
		"record_stop":        "停止录制",
		"record_done":        "录制完成: %d 个操作",
		"record_failed":      "录制失败: %v",
		"record_partial":     "捕获中断，保留了 %d 个操作",
		"no_recording":       "没有可回放的录制内容。",
		"recorded_truncated": "录制被中断；已保留部分宏。",

		// 回放
		"playback_finished": "回放完成",
		"playback_stopped":  "回放已停止",
		"playback_failed":   "回放失败: %v",
		"no_position":       "未设置坐标。请先使用\"设置坐标\"。",
		"no_actions":        "请至少添加一个操作。",
		"no_macro":          "未选择宏。",

		// 设置对话框
		"hotkey_settings": "热键设置",
		"start_hotkey":    "开始热键 (例如: F9 或 ctrl+F9):",
		"stop_hotkey":     "停止热键 (例如: F10):",
		"record_hotkey":   "录制热键 (例如: F8):",
		"speed":           "回放速度",
		"language":        "语言",
		"platform":        "平台",
		"hotkeys_saved":   "热键已保存: 开始 %s, 停止 %s, 录制 %s",
		"hotkeys_invalid": "热键无效: %v",
		"settings_busy":   "请先停止当前任务再修改设置。",

		// 持久化
		"macro_saved":       "宏已保存: %s",
		"macro_save_failed": "保存宏失败: %v",
		"macro_load_failed": "加载宏失败: %v",
		"macro_loaded":      "宏已加载: %s",
		"macro_name":        "宏名称",

		// 错误
		"capture_unavailable": "当前系统无法进行输入捕获。",
		"engine_start_failed": "引擎启动失败: %v",

		// 命令行模式
		"executing_macro": "正在执行宏: %s",
		"macro_actions":   "操作数量: %d",
	}
}
