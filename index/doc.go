// Copyright (c) WFX Authors.
// Licensed under the MIT License.

/*
Package index 提供组件目录的构建、校验与持久化能力。

# 概述

Builder 扫描组件根目录，通过纯文本解析（绝不执行组件代码）提取每个
组件包声明的懒加载映射，生成可序列化的 Catalog。文本解析是刻意设计：
组件包装的第三方依赖可能缺失、缓慢或在导入时产生副作用，索引过程
必须对此完全免疫。

# 核心类型

  - Builder      — 目录构建器（Scan 扫描 + 逐模块故障隔离）
  - Convention   — 组件包磁盘布局约定（初始化文件名、源码扩展名、映射标记）
  - CategoryMap  — 模块名→类别 的静态配置表，支持 YAML 外部覆盖
  - Store        — Catalog 的确定性 JSON 持久化（排序键、原子写入）

# 故障隔离

单个组件包的读取或解析失败只影响该包：记录 warning 后跳过，扫描
继续。组件元数据提取为尽力而为，失败时产出空元数据而非错误。
*/
package index
