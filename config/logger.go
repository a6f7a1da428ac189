package config

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"
)

// 业务日志按天落盘，文件名为日期，同时输出到控制台。
// 未调用 SetupLogger 时（如测试环境）退回标准库默认输出，不会崩溃
var appLogger *log.Logger

const logFileLayout = "2006-01-02"

// SetupLogger 初始化日志输出。日志目录可通过 LOG_DIR 指定，默认 logs/
func SetupLogger() error {
	dir := os.Getenv("LOG_DIR")
	if dir == "" {
		dir = "logs"
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("创建日志目录失败: %w", err)
	}

	name := filepath.Join(dir, time.Now().Format(logFileLayout)+".log")
	file, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return fmt.Errorf("打开日志文件失败: %w", err)
	}

	appLogger = log.New(io.MultiWriter(os.Stdout, file), "", log.Ldate|log.Ltime)
	return nil
}

func output(level, format string, v ...interface{}) {
	msg := fmt.Sprintf(format, v...)
	if appLogger == nil {
		log.Printf("[%s] %s", level, msg)
		return
	}
	appLogger.Printf("[%s] %s", level, msg)
}

// Info 记录业务流水日志
func Info(format string, v ...interface{}) {
	output("INFO", format, v...)
}

// Warning 记录已降级处理的异常，如缓存失效失败、邮件丢弃
func Warning(format string, v ...interface{}) {
	output("WARN", format, v...)
}

// Error 记录需要排查的错误
func Error(format string, v ...interface{}) {
	output("ERROR", format, v...)
}
