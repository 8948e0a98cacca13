// Copyright (c) WFX Authors.
// Licensed under the MIT License.

/*
Package config 提供组件索引子系统的配置管理功能。

# 概述

配置优先级: 默认值 → YAML 文件 → 环境变量。
路径在构造时一次性解析，进程生命周期内不再重读。

# 环境变量契约

  - WFX_DEV                     — "1"/"true"（任意大小写）启用完整重建的
    开发模式；其他非空值被解析为逗号分隔的类别白名单
  - WFX_COMPONENTS_INDEX_PATH   — 覆盖内置索引路径；路径不存在时告警并
    保留默认值
  - WFX_COMPONENTS_PATH         — 覆盖组件根目录
  - WFX_CACHE_DIR               — 覆盖用户缓存目录
  - WFX_CATEGORY_MAP_PATH       — 外部类别映射覆盖文件（YAML）

# 主要能力

  - Loader Builder 模式: NewLoader().WithConfigPath(...).Load()
  - 路径解析失败时优雅降级为空路径，后续加载显式失败而非构造崩溃
  - LogConfig.BuildLogger 构建 zap 日志器
*/
package config
